package main

import "github.com/JakeFAU/stackdump-mirror/cmd"

func main() {
	cmd.Execute()
}
