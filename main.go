package main

import "github.com/frahmantamala/jinzai/cmd"

func main() {
	cmd.Execute()
}
