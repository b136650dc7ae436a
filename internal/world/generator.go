package world

import (
	"math/rand"

	"github.com/annel0/tileworld/internal/util"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world/tile"
)

// BiomeType представляет тип биома
type BiomeType int

const (
	BiomePlains BiomeType = iota
	BiomeDesert
	BiomeForest
	BiomeMountains
	BiomeWater
	BiomeDeepWater
)

// Индексы слоёв коллизий, которые использует генератор
const (
	CollisionSolid = 0
	CollisionWater = 1
)

// GeneratorMaterials связывает роли генератора с идентификаторами материалов каталога.
// Нулевой идентификатор отключает соответствующую роль.
type GeneratorMaterials struct {
	DeepWater uint32 `yaml:"deep_water"`
	Water     uint32 `yaml:"water"`
	Sand      uint32 `yaml:"sand"`
	Grass     uint32 `yaml:"grass"`
	Dirt      uint32 `yaml:"dirt"`
	Stone     uint32 `yaml:"stone"`
	Tree      uint32 `yaml:"tree"`
	Cactus    uint32 `yaml:"cactus"`
	Rock      uint32 `yaml:"rock"`
	Cliff     uint32 `yaml:"cliff"`
}

// GeneratorConfig задаёт параметры генерации ландшафта
type GeneratorConfig struct {
	Seed           int64
	NoiseScale     float64 // Масштаб основного шума (высота)
	BiomeScale     float64 // Масштаб шума биомов
	DeepWaterMax   float64 // Ниже - глубокая вода
	WaterMax       float64 // Ниже - мелководье
	SandMax        float64 // Ниже - пляж
	MountainStart  float64 // Выше - горы
	MountainStep   float64 // Прирост высоты на каждый слой скал
	MaxCliffLayers int     // Максимум динамических слоёв скал
	ForestDensity  float64 // Шанс дерева на равнине
	Materials      GeneratorMaterials
}

// DefaultGeneratorConfig возвращает параметры по умолчанию
func DefaultGeneratorConfig(seed int64) GeneratorConfig {
	return GeneratorConfig{
		Seed:           seed,
		NoiseScale:     0.05,
		BiomeScale:     0.02,
		DeepWaterMax:   0.20,
		WaterMax:       0.30,
		SandMax:        0.35,
		MountainStart:  0.70,
		MountainStep:   0.05,
		MaxCliffLayers: 3,
		ForestDensity:  0.05,
		Materials: GeneratorMaterials{
			DeepWater: 1,
			Water:     2,
			Sand:      3,
			Grass:     4,
			Dirt:      5,
			Stone:     6,
			Tree:      7,
			Cactus:    8,
			Rock:      9,
			Cliff:     10,
		},
	}
}

// WorldGenerator генерирует ландшафт мира.
// Генерация выполняется до подключения поведений отрисовки, чтобы массовые
// записи не вызывали автотайлинг на каждый тайл.
type WorldGenerator struct {
	cfg    GeneratorConfig
	height *util.Noise
	biome  *util.Noise
}

// NewWorldGenerator создаёт новый генератор мира
func NewWorldGenerator(cfg GeneratorConfig) *WorldGenerator {
	return &WorldGenerator{
		cfg:    cfg,
		height: util.NewNoise(cfg.Seed),
		biome:  util.NewNoise(cfg.Seed + 42),
	}
}

// Generate заполняет все чанки мира
func (wg *WorldGenerator) Generate(wm *WorldMap) {
	for _, c := range wm.Chunks() {
		wg.GenerateChunk(wm, c)
	}
}

// GenerateChunk заполняет один чанк. Результат зависит только от сида,
// размера мира и координат чанка.
func (wg *WorldGenerator) GenerateChunk(wm *WorldMap, c *Chunk) {
	// Для каждого чанка создаем уникальный сид на основе глобального сида и координат
	chunkSeed := wg.cfg.Seed + int64(c.Coords.X*31) + int64(c.Coords.Y*17)
	rng := rand.New(rand.NewSource(chunkSeed))

	worldSize := wm.TileSize()
	origin := c.Coords.Scale(ChunkSize)

	for y := 0; y < ChunkSize; y++ {
		for x := 0; x < ChunkSize; x++ {
			global := origin.Add(vec.Vec2{X: x, Y: y})

			height := wg.sample(wg.height, global, wg.cfg.NoiseScale, worldSize)
			biomeValue := wg.sample(wg.biome, global, wg.cfg.BiomeScale, worldSize)
			biome := wg.biomeType(height, biomeValue)

			c.SetTile(x, y, LayerGround, wg.groundTile(height, biome))

			if deco := wg.decoration(biome, rng); deco.ID != 0 {
				c.SetTile(x, y, LayerBase, deco)
			}

			for l := 0; l < wg.cliffLayers(height); l++ {
				c.SetTile(x, y, StaticLayers+l, wg.solid(wg.cfg.Materials.Cliff, tile.ColliderFull))
			}
		}
	}
}

// sample возвращает бесшовный по тору шум: значения на противоположных краях мира
// смешиваются, поэтому рельеф не рвётся при заворачивании координат.
func (wg *WorldGenerator) sample(n *util.Noise, p vec.Vec2, scale float64, worldSize vec.Vec2) float64 {
	w := float64(worldSize.X)
	h := float64(worldSize.Y)
	x := float64(p.X)
	y := float64(p.Y)

	a := n.Noise2D(x*scale, y*scale)
	b := n.Noise2D((x-w)*scale, y*scale)
	c := n.Noise2D(x*scale, (y-h)*scale)
	d := n.Noise2D((x-w)*scale, (y-h)*scale)

	fx := x / w
	fy := y / h
	return a*(1-fx)*(1-fy) + b*fx*(1-fy) + c*(1-fx)*fy + d*fx*fy
}

// biomeType определяет тип биома на основе значений шума
func (wg *WorldGenerator) biomeType(height, biomeValue float64) BiomeType {
	switch {
	case height < wg.cfg.DeepWaterMax:
		return BiomeDeepWater
	case height < wg.cfg.WaterMax:
		return BiomeWater
	case height > wg.cfg.MountainStart:
		return BiomeMountains
	case biomeValue < 0.4:
		return BiomeDesert
	case biomeValue > 0.6:
		return BiomeForest
	default:
		return BiomePlains
	}
}

// groundTile возвращает тайл земли для высоты и биома
func (wg *WorldGenerator) groundTile(height float64, biome BiomeType) tile.Tile {
	m := wg.cfg.Materials
	switch biome {
	case BiomeDeepWater:
		return wg.solidOn(m.DeepWater, tile.ColliderFull, CollisionWater)
	case BiomeWater:
		return wg.solidOn(m.Water, tile.ColliderFull, CollisionWater)
	case BiomeMountains:
		return tile.New(m.Stone)
	case BiomeDesert:
		return tile.New(m.Sand)
	}
	if height < wg.cfg.SandMax {
		return tile.New(m.Sand)
	}
	if biome == BiomeForest {
		return tile.New(m.Dirt)
	}
	return tile.New(m.Grass)
}

// decoration выбирает объект слоя LayerBase
func (wg *WorldGenerator) decoration(biome BiomeType, rng *rand.Rand) tile.Tile {
	m := wg.cfg.Materials
	roll := rng.Float64()
	switch biome {
	case BiomeForest:
		if roll < 0.15 { // 15% шанс дерева в лесу
			return wg.solid(m.Tree, tile.ColliderCentredHalf)
		}
	case BiomePlains:
		if roll < wg.cfg.ForestDensity {
			return wg.solid(m.Tree, tile.ColliderCentredHalf)
		}
	case BiomeDesert:
		if roll < 0.02 { // 2% шанс кактуса в пустыне
			return wg.solid(m.Cactus, tile.ColliderQuarter)
		}
	case BiomeMountains:
		if roll < 0.1 {
			return wg.solid(m.Rock, tile.ColliderFull)
		}
	}
	return tile.Tile{}
}

// cliffLayers возвращает количество слоёв скал над клеткой
func (wg *WorldGenerator) cliffLayers(height float64) int {
	if wg.cfg.Materials.Cliff == 0 || height <= wg.cfg.MountainStart || wg.cfg.MountainStep <= 0 {
		return 0
	}
	n := 1 + int((height-wg.cfg.MountainStart)/wg.cfg.MountainStep)
	return min(n, wg.cfg.MaxCliffLayers)
}

func (wg *WorldGenerator) solid(id uint32, shape tile.ColliderType) tile.Tile {
	return wg.solidOn(id, shape, CollisionSolid)
}

func (wg *WorldGenerator) solidOn(id uint32, shape tile.ColliderType, layer uint16) tile.Tile {
	if id == 0 {
		return tile.Tile{}
	}
	return tile.Tile{ID: id, Collider: tile.Collider{Type: shape, Layer: layer}}
}
