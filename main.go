package main

import "subercraftex/cmd"

func main() {
	cmd.Execute()
}
