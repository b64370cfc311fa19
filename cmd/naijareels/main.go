package main

import "github.com/NaijaReels/naijareels-go/internal/presentation/cli"

func main() {
	cli.Execute()
}
