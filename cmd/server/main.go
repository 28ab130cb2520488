package main

import "github.com/nguyentranbao-ct/price-compare/cmd"

func main() {
	cmd.Execute()
}
