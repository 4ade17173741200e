package shuffle

import "time"

// Seed 描述一个确定性的随机源。同一个Seed每次都会产生相同的交换序列。
type Seed interface {
	// picker 返回一个全新的取号函数，pick(i) 返回 [0, i] 区间内的下标
	picker() func(i int) int
}

const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619

	lcgMultiplier int64 = 9301
	lcgIncrement  int64 = 49297
	lcgModulus    int64 = 233280
)

// StringSeed 使用FNV-1a折叠字符串，再驱动Fisher–Yates洗牌。
// 典型用法是以ISO日期 "2024-01-01" 作为种子。
type StringSeed string

func (s StringSeed) picker() func(i int) int {
	h := fnvOffsetBasis
	for i := 0; i < len(s); i++ {
		h = (h ^ uint32(s[i])) * fnvPrime
	}
	return func(i int) int {
		h = (h ^ uint32(i)) * fnvPrime
		return int(h % uint32(i+1))
	}
}

// IntSeed 使用线性同余发生器 seed = (seed*9301 + 49297) mod 233280 驱动交换下标。
// 典型用法是以 YYYYMMDD 整数作为种子。
type IntSeed int64

func (s IntSeed) picker() func(i int) int {
	state := int64(s) % lcgModulus
	if state < 0 {
		state += lcgModulus
	}
	return func(i int) int {
		state = (state*lcgMultiplier + lcgIncrement) % lcgModulus
		return int(state * int64(i+1) / lcgModulus)
	}
}

// Shuffle 返回items的一个新排列，结果只取决于seed。输入切片不会被修改。
func Shuffle[T any](items []T, seed Seed) []T {
	result := make([]T, len(items))
	copy(result, items)
	if len(result) < 2 {
		return result
	}

	pick := seed.picker()
	for i := len(result) - 1; i > 0; i-- {
		j := pick(i)
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// DateSeed 把日期转换为 YYYYMMDD 形式的整数种子
func DateSeed(t time.Time) int64 {
	y, m, d := t.Date()
	return int64(y)*10000 + int64(m)*100 + int64(d)
}

// DateKey 返回 YYYY-MM-DD 形式的日期字符串
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
