package main

import "github.com/YangQing-Lin/springtint/cmd"

func main() {
	cmd.Execute()
}
