package main

import "github.com/xlate/jsonapi-rvp/cmd/rvp"

func main() {
	rvp.Main()
}
