package resource

import "errors"

// ErrNotFound возвращается, когда ресурса с указанным именем нет
var ErrNotFound = errors.New("ресурс не найден")
