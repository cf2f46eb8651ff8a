package main

import "velo/internal/velo"

func main() {
	velo.Main()
}
