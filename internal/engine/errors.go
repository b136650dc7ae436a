package engine

import "errors"

var (
	// ErrStopped возвращается командами, поданными после остановки движка
	ErrStopped = errors.New("движок остановлен")
	// ErrInvalidArgument - некорректные координаты, слой или размер
	ErrInvalidArgument = errors.New("некорректный аргумент")
	// ErrMissingResource - в контексте ресурсов нет мира или определения тайлов
	ErrMissingResource = errors.New("ресурс отсутствует")
)
