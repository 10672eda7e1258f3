package core

// Entity is an opaque handle to a logical table element
// Handles index the world arena; zero is never issued
type Entity uint32

// EntityNone is the null handle
const EntityNone Entity = 0

// Point is a terminal cell coordinate, 0-indexed from the top-left corner
type Point struct {
	X, Y int
}
