package world

// Индексы слоёв чанка.
//
// 0 – LayerGround: земля, рисуется с переходами между материалами;
// 1 – LayerBase: объекты на земле;
// 2 и выше – динамические слои высот, создаются и удаляются по заполненности.
const (
	LayerGround = iota
	LayerBase

	StaticLayers // всегда последний: количество статических слоёв
)

// Геометрия чанка
const (
	ChunkSize = 32 // Сторона чанка в тайлах
	TileSize  = 32 // Размер тайла в текстуре (пиксели)
	TileDelta = 1  // Зазор между тайлами в текстуре (пиксели)
)

// defaultLayerHeight возвращает начальную высоту слоя.
// Статические слои лежат на 0 и 0.5, динамический слой i - на i-1.
func defaultLayerHeight(layer int) float64 {
	switch layer {
	case LayerGround:
		return 0
	case LayerBase:
		return 0.5
	default:
		return float64(layer) - 1
	}
}
