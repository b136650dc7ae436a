package util

import (
	"fmt"
	"sync"

	"github.com/annel0/tileworld/internal/logging"
)

var reported sync.Map

// Assert проверяет инвариант. В сборке с тегом debugassert нарушение вызывает
// панику, иначе сообщение пишется в лог один раз и вызывающий берёт запасной путь.
// Возвращает значение cond, чтобы можно было писать: if !util.Assert(...) { return }
func Assert(cond bool, format string, args ...interface{}) bool {
	if cond {
		return true
	}
	msg := fmt.Sprintf(format, args...)
	if debugAsserts {
		panic("нарушен инвариант: " + msg)
	}
	if _, seen := reported.LoadOrStore(format, struct{}{}); !seen {
		logging.Error("нарушен инвариант: %s", msg)
	}
	return false
}
