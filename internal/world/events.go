package world

// LayerState описывает, что произошло со слоем чанка
type LayerState uint8

const (
	LayerAdded         LayerState = iota // Слой создан
	LayerRemoved                         // Слой удалён (всегда верхний)
	LayerHeightChanged                   // Изменена высота слоя
)

// String возвращает имя состояния
func (s LayerState) String() string {
	switch s {
	case LayerAdded:
		return "added"
	case LayerRemoved:
		return "removed"
	case LayerHeightChanged:
		return "heightChanged"
	default:
		return "unknown"
	}
}

// LayerChanged - событие жизненного цикла слоя чанка
type LayerChanged struct {
	Layer int
	State LayerState
}
