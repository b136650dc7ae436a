package eventbus

// Signal - синхронный типизированный сигнал внутри одного потока.
// Обработчики вызываются в порядке подключения, в той же горутине, что и Emit.
// Отключённый Holder больше никогда не вызывает свой обработчик, даже если
// отключение произошло во время рассылки.
type Signal[T any] struct {
	slots    []*slot[T]
	emitting int
	dead     int
}

type slot[T any] struct {
	fn    func(T)
	alive bool
}

// Holder владеет подпиской на Signal
type Holder struct {
	disconnect func()
}

// Connect подписывает обработчик и возвращает его владельца
func (s *Signal[T]) Connect(fn func(T)) *Holder {
	sl := &slot[T]{fn: fn, alive: true}
	s.slots = append(s.slots, sl)
	return &Holder{disconnect: func() {
		if !sl.alive {
			return
		}
		sl.alive = false
		sl.fn = nil
		s.dead++
		s.compact()
	}}
}

// Emit рассылает значение по снимку текущих подписчиков
func (s *Signal[T]) Emit(v T) {
	if len(s.slots) == 0 {
		return
	}
	snapshot := make([]*slot[T], len(s.slots))
	copy(snapshot, s.slots)

	s.emitting++
	for _, sl := range snapshot {
		if sl.alive {
			sl.fn(v)
		}
	}
	s.emitting--
	s.compact()
}

// Len возвращает число активных подписок
func (s *Signal[T]) Len() int {
	return len(s.slots) - s.dead
}

func (s *Signal[T]) compact() {
	if s.emitting > 0 || s.dead == 0 {
		return
	}
	alive := s.slots[:0]
	for _, sl := range s.slots {
		if sl.alive {
			alive = append(alive, sl)
		}
	}
	for i := len(alive); i < len(s.slots); i++ {
		s.slots[i] = nil
	}
	s.slots = alive
	s.dead = 0
}

// Disconnect отключает подписку. Повторный вызов безопасен, как и вызов на nil.
func (h *Holder) Disconnect() {
	if h == nil || h.disconnect == nil {
		return
	}
	h.disconnect()
	h.disconnect = nil
}

// Connected сообщает, активна ли подписка
func (h *Holder) Connected() bool {
	return h != nil && h.disconnect != nil
}

// Holders собирает несколько подписок для совместного отключения
type Holders []*Holder

// Add добавляет подписку
func (hs *Holders) Add(h *Holder) {
	*hs = append(*hs, h)
}

// DisconnectAll отключает все подписки и очищает список
func (hs *Holders) DisconnectAll() {
	for _, h := range *hs {
		h.Disconnect()
	}
	*hs = (*hs)[:0]
}
