package tiledef

// ConnexionType - категория связности клетки с соседями того же материала.
// По категории выбирается спрайт с правильными швами.
type ConnexionType uint8

const (
	Empty ConnexionType = iota // Все соседи того же материала
	Full                       // Все четыре стороны открыты

	Top3
	Down3
	Left3
	Right3

	Vertical
	Horizontal

	DownRightWithCorner
	TopRightWithCorner
	DownLeftWithCorner
	TopLeftWithCorner

	TopLeft
	DownLeft
	TopRight
	DownRight

	LeftCorners2
	RightCorners2
	TopCorners2
	DownCorners2

	LeftCornerDown
	LeftCornerTop
	RightCornerTop
	RightCornerDown
	TopCornerDown
	TopCornerTop
	DownCornerTop
	DownCornerDown

	Left
	Right
	Top
	Down

	QuadCorners

	TopLeftCorners3
	TopRightCorners3
	DownLeftCorners3
	DownRightCorners3

	DiagonalTopRight
	DiagonalTopLeft

	RightCorners
	LeftCorners
	TopCorners
	DownCorners

	TopRightCorner
	TopLeftCorner
	DownRightCorner
	DownLeftCorner

	ConnexionCount // всегда последний: количество категорий
)

var connexionNames = [ConnexionCount]string{
	"Empty", "Full",
	"Top3", "Down3", "Left3", "Right3",
	"Vertical", "Horizontal",
	"DownRightWithCorner", "TopRightWithCorner", "DownLeftWithCorner", "TopLeftWithCorner",
	"TopLeft", "DownLeft", "TopRight", "DownRight",
	"LeftCorners2", "RightCorners2", "TopCorners2", "DownCorners2",
	"LeftCornerDown", "LeftCornerTop", "RightCornerTop", "RightCornerDown",
	"TopCornerDown", "TopCornerTop", "DownCornerTop", "DownCornerDown",
	"Left", "Right", "Top", "Down",
	"QuadCorners",
	"TopLeftCorners3", "TopRightCorners3", "DownLeftCorners3", "DownRightCorners3",
	"DiagonalTopRight", "DiagonalTopLeft",
	"RightCorners", "LeftCorners", "TopCorners", "DownCorners",
	"TopRightCorner", "TopLeftCorner", "DownRightCorner", "DownLeftCorner",
}

// String возвращает имя категории
func (c ConnexionType) String() string {
	if c < ConnexionCount {
		return connexionNames[c]
	}
	return "Unknown"
}

// ParseConnexionType возвращает категорию по имени
func ParseConnexionType(name string) (ConnexionType, bool) {
	for i, n := range connexionNames {
		if n == name {
			return ConnexionType(i), true
		}
	}
	return Empty, false
}

// Neighborhood - окрестность 3x3, индексируется [строка][столбец].
// Центр [1][1] считается истинным; соседняя клетка истинна, если она того же материала.
type Neighborhood [3][3]bool

// Classify относит окрестность к категории связности.
// Шаблоны пересекаются, поэтому порядок проверок фиксирован: первая подходящая побеждает.
func Classify(n Neighborhood) ConnexionType {
	l := n[1][0]
	r := n[1][2]
	t := n[0][1]
	d := n[2][1]
	tl := n[0][0]
	tr := n[0][2]
	dl := n[2][0]
	dr := n[2][2]

	switch {
	// открыты все стороны
	case !l && !r && !t && !d:
		return Full
	// три стороны
	case !l && !r && !t:
		return Top3
	case !l && !r && !d:
		return Down3
	case !l && !t && !d:
		return Left3
	case !r && !t && !d:
		return Right3
	// прямые
	case !l && !r:
		return Vertical
	case !t && !d:
		return Horizontal
	// угол с диагональным углом
	case !l && !t && !dr:
		return DownRightWithCorner
	case !l && !d && !tr:
		return TopRightWithCorner
	case !r && !t && !dl:
		return DownLeftWithCorner
	case !r && !d && !tl:
		return TopLeftWithCorner
	// угол без угла
	case !l && !t:
		return TopLeft
	case !l && !d:
		return DownLeft
	case !r && !t:
		return TopRight
	case !r && !d:
		return DownRight
	// сторона и два угла
	case !l && !dr && !tr:
		return LeftCorners2
	case !r && !dl && !tl:
		return RightCorners2
	case !t && !dl && !dr:
		return TopCorners2
	case !d && !tl && !tr:
		return DownCorners2
	// сторона и один угол
	case !l && !dr:
		return LeftCornerDown
	case !l && !tr:
		return LeftCornerTop
	case !r && !dl:
		return RightCornerTop
	case !r && !tl:
		return RightCornerDown
	case !t && !dl:
		return TopCornerDown
	case !t && !dr:
		return TopCornerTop
	case !d && !tl:
		return DownCornerTop
	case !d && !tr:
		return DownCornerDown
	// одна сторона
	case !l:
		return Left
	case !r:
		return Right
	case !t:
		return Top
	case !d:
		return Down
	// четыре угла
	case !tl && !tr && !dl && !dr:
		return QuadCorners
	// три угла
	case !tl && !tr && !dl:
		return TopLeftCorners3
	case !tl && !tr && !dr:
		return TopRightCorners3
	case !tl && !dl && !dr:
		return DownLeftCorners3
	case !tr && !dl && !dr:
		return DownRightCorners3
	// два угла по диагонали
	case !tr && !dl:
		return DiagonalTopRight
	case !tl && !dr:
		return DiagonalTopLeft
	// два угла с одной стороны
	case !tr && !dr:
		return RightCorners
	case !tl && !dl:
		return LeftCorners
	case !tr && !tl:
		return TopCorners
	case !dr && !dl:
		return DownCorners
	// один угол
	case !tr:
		return TopRightCorner
	case !tl:
		return TopLeftCorner
	case !dr:
		return DownRightCorner
	case !dl:
		return DownLeftCorner
	default:
		return Empty
	}
}

// NeighborhoodFunc строит окрестность, спрашивая same для каждой клетки окна 3x3.
// Центр всегда истинен.
func NeighborhoodFunc(same func(row, col int) bool) Neighborhood {
	var n Neighborhood
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			n[row][col] = same(row, col)
		}
	}
	n[1][1] = true
	return n
}
