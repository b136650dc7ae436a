package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/annel0/tileworld/internal/world/tiledef"
	"gopkg.in/yaml.v3"
)

// AllConnexions в поле connexion раскладывает тайлы атласа по всем категориям
// связности подряд: категория c получает тайл tile+c.
const AllConnexions = "*"

var (
	// ErrUnknownConnexion - в каталоге указано неизвестное имя категории связности
	ErrUnknownConnexion = errors.New("неизвестная категория связности")
	// ErrUnknownTexture - тайл ссылается на текстуру, которой нет в каталоге
	ErrUnknownTexture = errors.New("неизвестная текстура")
	// ErrMaterialID - id материала 0 или больше tiledef.MaxMaterialID
	ErrMaterialID = errors.New("недопустимый id материала")
)

//go:embed default_tiles.yaml
var defaultTiles []byte

// TileCatalog - YAML-описание текстур и материалов
type TileCatalog struct {
	Seed      uint64         `yaml:"seed"`
	Textures  []TextureSpec  `yaml:"textures"`
	Materials []MaterialSpec `yaml:"materials"`
}

type TextureSpec struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type MaterialSpec struct {
	ID     uint32       `yaml:"id"`
	Name   string       `yaml:"name"`
	Layers []LayerRange `yaml:"layers"`
	Tiles  []TileSpec   `yaml:"tiles"`
}

type LayerRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

type TileSpec struct {
	Connexion string  `yaml:"connexion"` // Имя tiledef.ConnexionType или "*"
	Tile      int     `yaml:"tile"`      // Номер тайла в атласе, с 1
	Texture   string  `yaml:"texture"`
	Weight    float64 `yaml:"weight"` // 0 считается как 1
}

// DefaultTileCatalog возвращает встроенный каталог, согласованный с
// материалами генератора по умолчанию
func DefaultTileCatalog() *TileCatalog {
	c, err := ParseTileCatalog(defaultTiles)
	if err != nil {
		panic(fmt.Sprintf("встроенный каталог тайлов: %v", err))
	}
	return c
}

// LoadTileCatalog читает каталог из файла; пустой путь - встроенный каталог
func LoadTileCatalog(path string) (*TileCatalog, error) {
	if path == "" {
		return DefaultTileCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение каталога тайлов %s: %w", path, err)
	}
	return ParseTileCatalog(data)
}

// ParseTileCatalog разбирает YAML каталога
func ParseTileCatalog(data []byte) (*TileCatalog, error) {
	var c TileCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("разбор каталога тайлов: %w", err)
	}
	return &c, nil
}

// Build создаёт описание тайлов. Ошибки ссылок на текстуры и категории
// возвращаются с именем материала.
func (c *TileCatalog) Build() (*tiledef.Definition, error) {
	def := tiledef.New()
	def.SetSeed(c.Seed)
	for _, t := range c.Textures {
		if t.Width <= 0 || t.Height <= 0 {
			return nil, fmt.Errorf("текстура %q: размер %dx%d", t.Name, t.Width, t.Height)
		}
		def.AddTexture(tiledef.Texture{Name: t.Name, Width: t.Width, Height: t.Height})
	}

	for _, m := range c.Materials {
		if m.ID == 0 || m.ID > tiledef.MaxMaterialID {
			return nil, fmt.Errorf("материал %q: %w %d (допустимо 1..%d)", m.Name, ErrMaterialID, m.ID, tiledef.MaxMaterialID)
		}
		for _, r := range m.Layers {
			def.AddAllowedLayers(m.ID, r.Min, r.Max)
		}
		for _, t := range m.Tiles {
			tex, ok := def.TextureIndex(t.Texture)
			if !ok {
				return nil, fmt.Errorf("материал %q: %w %q", m.Name, ErrUnknownTexture, t.Texture)
			}
			weight := t.Weight
			if weight == 0 {
				weight = 1
			}

			if t.Connexion == AllConnexions {
				for cx := tiledef.ConnexionType(0); cx < tiledef.ConnexionCount; cx++ {
					def.AddTile(m.ID, cx, tiledef.Variant{TextureID: tex, TileID: t.Tile + int(cx), Weight: weight})
				}
				continue
			}
			cx, ok := tiledef.ParseConnexionType(t.Connexion)
			if !ok {
				return nil, fmt.Errorf("материал %q: %w %q", m.Name, ErrUnknownConnexion, t.Connexion)
			}
			def.AddTile(m.ID, cx, tiledef.Variant{TextureID: tex, TileID: t.Tile, Weight: weight})
		}
	}
	return def, nil
}
