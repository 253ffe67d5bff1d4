package main

import "github.com/sebvdn/carte-gpx/cmd/carte/cmd"

func main() {
	cmd.Execute()
}
