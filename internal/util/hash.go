package util

// Hash перемешивает 64-битное значение (финализатор в стиле splitmix)
func Hash(value uint64) uint64 {
	value++
	value ^= value >> 33
	value *= 0xff51afd7ed558ccd
	value ^= value >> 33
	value *= 0xc4ceb9fe1a85ec53
	value ^= value >> 33
	return value
}

// HashArgs детерминированно хеширует сид и последовательность целых.
// Одинаковые аргументы всегда дают одинаковый результат.
func HashArgs(seed uint64, args ...int64) uint64 {
	if len(args) == 0 {
		return Hash(seed)
	}
	last := len(args) - 1
	value := Hash(Hash(seed)*101 + uint64(args[last]))
	for i := last - 1; i >= 0; i-- {
		value = Hash(value*37 + uint64(args[i]))
	}
	return value
}

// HashFloat переводит хеш в число из [0, 1)
func HashFloat(h uint64) float64 {
	return float64(h>>11) / float64(1<<53)
}
