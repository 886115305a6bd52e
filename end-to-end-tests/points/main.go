package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a position on a grid.
type Point struct {
	// @Getter
	// @With
	x int
	// @Getter
	// @With
	y int

	// @Getter
	// @Setter
	Label string
}

// @Must
func NewPoint(s string) (*Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid point %q", s)
	}
	x, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, err
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, err
	}
	return &Point{x: x, y: y}, nil
}

// @Must
func (p *Point) Scale(factor string) (Point, error) {
	f, err := strconv.Atoi(factor)
	if err != nil {
		return Point{}, err
	}
	return Point{x: p.x * f, y: p.y * f, Label: p.Label}, nil
}

func (p Point) String() string {
	type coordinates struct {
		// @Getter
		values [2]int
	}
	c := coordinates{values: [2]int{p.x, p.y}}
	return fmt.Sprintf("%s(%d, %d)", p.Label, c.values[0], c.values[1])
}

func main() {
	p, err := NewPoint("1,2")
	if err != nil {
		panic(err)
	}
	fmt.Println(p)
}
