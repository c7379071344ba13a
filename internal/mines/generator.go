package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is a difficulty preset. The preset levels fix the board size to the
// level value, Custom takes the size from the caller.
type Level int

const (
	Custom     Level = 0
	Nine       Level = 9
	Sixteen    Level = 16
	TwentyFour Level = 24
)

// DefaultMineCount is used for every board size without a preset.
const DefaultMineCount = 100

// MaxSize bounds custom boards to MaxSize*MaxSize cells.
const MaxSize = 128

func (l Level) Valid() bool {
	switch l {
	case Custom, Nine, Sixteen, TwentyFour:
		return true
	default:
		return false
	}
}

func (l Level) String() string {
	if l == Custom {
		return "custom"
	}
	return strconv.Itoa(int(l))
}

// ParseLevel accepts "9", "16", "24" and "0" or "custom".
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "custom" {
		return Custom, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalidLevel(fmt.Sprintf("level %q is not a number", s))
	}
	l := Level(n)
	if !l.Valid() {
		return 0, invalidLevel(fmt.Sprintf("level must be one of 9, 16, 24 or custom, got %d", n))
	}
	return l, nil
}

// BoardSize resolves the board dimension for the level. size is only
// consulted for Custom.
func (l Level) BoardSize(size int) (int, error) {
	if !l.Valid() {
		return 0, invalidLevel(fmt.Sprintf("unknown level %d", int(l)))
	}
	if l != Custom {
		return int(l), nil
	}
	if size <= 0 {
		return 0, invalidLevel("custom level requires a positive size")
	}
	if size > MaxSize {
		return 0, invalidLevel(fmt.Sprintf("custom size must not exceed %d, got %d", MaxSize, size))
	}
	return size, nil
}

func MineCountFor(size int) int {
	switch size {
	case 9:
		return 10
	case 16:
		return 40
	case 24:
		return 99
	default:
		return DefaultMineCount
	}
}
