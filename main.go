package main

import "github.com/tayloree/cookr/cmd"

func main() {
	cmd.Execute()
}
