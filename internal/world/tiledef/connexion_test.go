package tiledef

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fromMask строит окрестность из 8 битов: порядок tl, t, tr, l, r, dl, d, dr
func fromMask(mask int) Neighborhood {
	cells := [8][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}
	var n Neighborhood
	n[1][1] = true
	for i, c := range cells {
		n[c[0]][c[1]] = mask&(1<<i) != 0
	}
	return n
}

func allTrue() Neighborhood {
	return fromMask(0xFF)
}

func with(n Neighborhood, open ...[2]int) Neighborhood {
	for _, c := range open {
		n[c[0]][c[1]] = false
	}
	return n
}

var (
	cTL = [2]int{0, 0}
	cT  = [2]int{0, 1}
	cTR = [2]int{0, 2}
	cL  = [2]int{1, 0}
	cR  = [2]int{1, 2}
	cDL = [2]int{2, 0}
	cD  = [2]int{2, 1}
	cDR = [2]int{2, 2}
)

func TestClassifyExtremes(t *testing.T) {
	assert.Equal(t, Empty, Classify(allTrue()), "без открытых сторон и углов - Empty")
	assert.Equal(t, Full, Classify(fromMask(0)), "только центр - Full")
}

func TestClassifyIsTotalAndDeterministic(t *testing.T) {
	seen := make(map[ConnexionType]bool)
	for mask := 0; mask < 256; mask++ {
		n := fromMask(mask)
		c := Classify(n)
		assert.True(t, c < ConnexionCount, "маска %08b дала неизвестную категорию", mask)
		assert.Equal(t, c, Classify(n), "повторный вызов должен давать тот же результат")
		seen[c] = true
	}
	assert.Len(t, seen, int(ConnexionCount), "каждая категория должна быть достижима")
}

func TestClassifyIgnoresCenter(t *testing.T) {
	n := with(allTrue(), cL)
	centerFalse := n
	centerFalse[1][1] = false
	assert.Equal(t, Classify(n), Classify(centerFalse))
}

func TestClassifyOrdering(t *testing.T) {
	cases := []struct {
		name string
		n    Neighborhood
		want ConnexionType
	}{
		{"три стороны сверху", with(allTrue(), cL, cR, cT), Top3},
		{"три стороны снизу", with(allTrue(), cL, cR, cD), Down3},
		{"три стороны слева", with(allTrue(), cL, cT, cD), Left3},
		{"три стороны справа", with(allTrue(), cR, cT, cD), Right3},
		{"вертикаль", with(allTrue(), cL, cR), Vertical},
		{"вертикаль важнее углов", with(allTrue(), cL, cR, cTL, cDR), Vertical},
		{"горизонталь", with(allTrue(), cT, cD), Horizontal},
		{"угол с углом", with(allTrue(), cL, cT, cDR), DownRightWithCorner},
		{"угол с углом 2", with(allTrue(), cL, cD, cTR), TopRightWithCorner},
		{"угол с углом 3", with(allTrue(), cR, cT, cDL), DownLeftWithCorner},
		{"угол с углом 4", with(allTrue(), cR, cD, cTL), TopLeftWithCorner},
		{"угол", with(allTrue(), cL, cT), TopLeft},
		{"угол, лишние углы не мешают", with(allTrue(), cL, cT, cTL, cTR, cDL), TopLeft},
		{"угол снизу слева", with(allTrue(), cL, cD), DownLeft},
		{"угол сверху справа", with(allTrue(), cR, cT), TopRight},
		{"угол снизу справа", with(allTrue(), cR, cD), DownRight},
		{"сторона и два угла", with(allTrue(), cL, cDR, cTR), LeftCorners2},
		{"сторона и два угла справа", with(allTrue(), cR, cDL, cTL), RightCorners2},
		{"сторона и два угла сверху", with(allTrue(), cT, cDL, cDR), TopCorners2},
		{"сторона и два угла снизу", with(allTrue(), cD, cTL, cTR), DownCorners2},
		{"сторона и угол", with(allTrue(), cL, cDR), LeftCornerDown},
		{"сторона и угол 2", with(allTrue(), cL, cTR), LeftCornerTop},
		{"сторона и угол 3", with(allTrue(), cR, cDL), RightCornerTop},
		{"сторона и угол 4", with(allTrue(), cR, cTL), RightCornerDown},
		{"сторона и угол 5", with(allTrue(), cT, cDL), TopCornerDown},
		{"сторона и угол 6", with(allTrue(), cT, cDR), TopCornerTop},
		{"сторона и угол 7", with(allTrue(), cD, cTL), DownCornerTop},
		{"сторона и угол 8", with(allTrue(), cD, cTR), DownCornerDown},
		{"левая сторона", with(allTrue(), cL), Left},
		{"левая сторона, свои углы", with(allTrue(), cL, cTL, cDL), Left},
		{"правая сторона", with(allTrue(), cR), Right},
		{"верх", with(allTrue(), cT), Top},
		{"низ", with(allTrue(), cD), Down},
		{"четыре угла", with(allTrue(), cTL, cTR, cDL, cDR), QuadCorners},
		{"три угла", with(allTrue(), cTL, cTR, cDL), TopLeftCorners3},
		{"три угла 2", with(allTrue(), cTL, cTR, cDR), TopRightCorners3},
		{"три угла 3", with(allTrue(), cTL, cDL, cDR), DownLeftCorners3},
		{"три угла 4", with(allTrue(), cTR, cDL, cDR), DownRightCorners3},
		{"диагональ", with(allTrue(), cTR, cDL), DiagonalTopRight},
		{"диагональ 2", with(allTrue(), cTL, cDR), DiagonalTopLeft},
		{"два угла справа", with(allTrue(), cTR, cDR), RightCorners},
		{"два угла слева", with(allTrue(), cTL, cDL), LeftCorners},
		{"два угла сверху", with(allTrue(), cTL, cTR), TopCorners},
		{"два угла снизу", with(allTrue(), cDL, cDR), DownCorners},
		{"один угол", with(allTrue(), cTR), TopRightCorner},
		{"один угол 2", with(allTrue(), cTL), TopLeftCorner},
		{"один угол 3", with(allTrue(), cDR), DownRightCorner},
		{"один угол 4", with(allTrue(), cDL), DownLeftCorner},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Classify(c.n), "получено %s", Classify(c.n))
		})
	}
}

func TestConnexionNames(t *testing.T) {
	for c := Empty; c < ConnexionCount; c++ {
		parsed, ok := ParseConnexionType(c.String())
		assert.True(t, ok)
		assert.Equal(t, c, parsed)
	}
	_, ok := ParseConnexionType("Sideways")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", ConnexionCount.String())
}

func TestNeighborhoodFunc(t *testing.T) {
	n := NeighborhoodFunc(func(row, col int) bool { return row == 0 })
	assert.True(t, n[1][1], "центр всегда истинен")
	assert.True(t, n[0][2])
	assert.False(t, n[2][0])
	assert.Equal(t, Down3, Classify(n))
}
