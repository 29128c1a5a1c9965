package main

import "github.com/trentbecknell/saucebox/cmd"

func main() {
	cmd.Execute()
}
