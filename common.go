package sml

/*
common.go contains small helpers shared across the codec, aliased the
way the teacher package aliases standard library calls it uses
repeatedly.
*/

import "strconv"

var itoa func(int) string = strconv.Itoa
