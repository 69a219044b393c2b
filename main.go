package main

import "github.com/pders01/copycode/cmd"

func main() {
	cmd.Execute()
}
