// Package tiledef описывает материалы тайлов: варианты спрайтов для каждой
// категории связности, веса случайного выбора и допустимые слои.
package tiledef

import (
	"github.com/annel0/tileworld/internal/util"
)

// Texture - атлас тайлов
type Texture struct {
	Name   string
	Width  int // Пиксели
	Height int // Пиксели
}

// Variant - один вариант спрайта материала
type Variant struct {
	TextureID int     // Индекс текстуры в Definition
	TileID    int     // Номер тайла в атласе, начиная с 1; 0 - нет тайла
	Weight    float64 // Вес при случайном выборе
}

// LayerRange - включительный диапазон слоёв
type LayerRange struct {
	Min int
	Max int
}

// MaxMaterialID - наибольший допустимый id материала; таблица материалов плотная
const MaxMaterialID = 1<<16 - 1

type material struct {
	tiles         [ConnexionCount][]Variant
	allowedLayers []LayerRange
}

// Definition хранит текстуры и материалы. Материал 0 зарезервирован за «нет материала».
type Definition struct {
	textures  []Texture
	materials []material
	seed      uint64
}

// New создаёт пустое описание
func New() *Definition {
	return &Definition{}
}

// SetSeed задаёт сид детерминированного выбора вариантов
func (d *Definition) SetSeed(seed uint64) {
	d.seed = seed
}

// AddTexture добавляет текстуру и возвращает её индекс.
// Текстура с тем же именем не дублируется.
func (d *Definition) AddTexture(tex Texture) int {
	if i, ok := d.TextureIndex(tex.Name); ok {
		return i
	}
	d.textures = append(d.textures, tex)
	return len(d.textures) - 1
}

// RemoveTexture удаляет текстуру по индексу
func (d *Definition) RemoveTexture(index int) {
	if !util.Assert(index >= 0 && index < len(d.textures), "текстура %d отсутствует", index) {
		return
	}
	d.textures = append(d.textures[:index], d.textures[index+1:]...)
}

// RemoveAllTextures удаляет все текстуры
func (d *Definition) RemoveAllTextures() {
	d.textures = nil
}

// HaveTexture сообщает, зарегистрирована ли текстура
func (d *Definition) HaveTexture(name string) bool {
	_, ok := d.TextureIndex(name)
	return ok
}

// TextureIndex возвращает индекс текстуры по имени
func (d *Definition) TextureIndex(name string) (int, bool) {
	for i, t := range d.textures {
		if t.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Texture возвращает текстуру по индексу
func (d *Definition) Texture(index int) (Texture, bool) {
	if index < 0 || index >= len(d.textures) {
		return Texture{}, false
	}
	return d.textures[index], true
}

// TextureCount возвращает количество текстур
func (d *Definition) TextureCount() int {
	return len(d.textures)
}

func (d *Definition) material(id uint32) *material {
	for uint32(len(d.materials)) <= id {
		d.materials = append(d.materials, material{})
	}
	return &d.materials[id]
}

// AddTile регистрирует вариант. Если вариант с той же текстурой и тайлом уже есть,
// обновляется только его вес.
func (d *Definition) AddTile(materialID uint32, c ConnexionType, v Variant) {
	if !util.Assert(c < ConnexionCount, "неизвестная категория %d", c) {
		return
	}
	if !util.Assert(materialID <= MaxMaterialID, "id материала %d больше %d", materialID, MaxMaterialID) {
		return
	}
	m := d.material(materialID)
	for i := range m.tiles[c] {
		if m.tiles[c][i].TextureID == v.TextureID && m.tiles[c][i].TileID == v.TileID {
			m.tiles[c][i].Weight = v.Weight
			return
		}
	}
	m.tiles[c] = append(m.tiles[c], v)
}

// Tiles возвращает варианты материала для категории
func (d *Definition) Tiles(materialID uint32, c ConnexionType) []Variant {
	if uint64(materialID) >= uint64(len(d.materials)) || c >= ConnexionCount {
		return nil
	}
	return d.materials[materialID].tiles[c]
}

// AddAllowedLayers разрешает материал на слоях [min, max]
func (d *Definition) AddAllowedLayers(materialID uint32, min, max int) {
	if !util.Assert(materialID <= MaxMaterialID, "id материала %d больше %d", materialID, MaxMaterialID) {
		return
	}
	m := d.material(materialID)
	m.allowedLayers = append(m.allowedLayers, LayerRange{Min: min, Max: max})
}

// MaterialCount возвращает размер таблицы материалов (включая нулевой)
func (d *Definition) MaterialCount() int {
	return len(d.materials)
}

// ClearMaterials удаляет все материалы
func (d *Definition) ClearMaterials() {
	d.materials = nil
}

// TexturesForMaterial возвращает индексы текстур, используемых материалом,
// в порядке первого появления. Варианты с TileID 0 пропускаются.
func (d *Definition) TexturesForMaterial(materialID uint32) []int {
	if uint64(materialID) >= uint64(len(d.materials)) {
		return nil
	}
	var indexes []int
	seen := make(map[int]struct{})
	for _, variants := range d.materials[materialID].tiles {
		for _, v := range variants {
			if v.TileID == 0 {
				continue
			}
			if _, ok := seen[v.TextureID]; ok {
				continue
			}
			seen[v.TextureID] = struct{}{}
			indexes = append(indexes, v.TextureID)
		}
	}
	return indexes
}

// MaterialAllowedOnLayer сообщает, может ли материал лежать на слое
func (d *Definition) MaterialAllowedOnLayer(materialID uint32, layer int) bool {
	if uint64(materialID) >= uint64(len(d.materials)) {
		return false
	}
	for _, r := range d.materials[materialID].allowedLayers {
		if r.Min <= layer && r.Max >= layer {
			return true
		}
	}
	return false
}

// MaterialsOnLayer возвращает материалы, разрешённые на слое, по возрастанию id
func (d *Definition) MaterialsOnLayer(layer int) []uint32 {
	var ids []uint32
	for id := 1; id < len(d.materials); id++ {
		if d.MaterialAllowedOnLayer(uint32(id), layer) {
			ids = append(ids, uint32(id))
		}
	}
	return ids
}

// RandomTile выбирает вариант с учётом весов; roll лежит в [0, 1).
// Если вариантов нет, возвращается нулевой Variant (TileID 0 - пустая клетка).
func (d *Definition) RandomTile(materialID uint32, c ConnexionType, roll float64) Variant {
	variants := d.Tiles(materialID, c)
	if len(variants) == 0 {
		return Variant{}
	}
	total := 0.0
	for _, v := range variants {
		if v.Weight > 0 {
			total += v.Weight
		}
	}
	if total <= 0 {
		return variants[0]
	}
	target := roll * total
	acc := 0.0
	for _, v := range variants {
		if v.Weight <= 0 {
			continue
		}
		acc += v.Weight
		if target < acc {
			return v
		}
	}
	// Погрешность округления: берём последний вариант с положительным весом
	for i := len(variants) - 1; i >= 0; i-- {
		if variants[i].Weight > 0 {
			return variants[i]
		}
	}
	return variants[0]
}

// PickTile детерминированно выбирает вариант для клетки мира:
// одна и та же клетка всегда перерисовывается тем же вариантом.
func (d *Definition) PickTile(materialID uint32, c ConnexionType, x, y, layer int) Variant {
	h := util.HashArgs(d.seed, int64(x), int64(y), int64(layer), int64(materialID))
	return d.RandomTile(materialID, c, util.HashFloat(h))
}
