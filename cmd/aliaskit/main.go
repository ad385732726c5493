package main

import "github.com/lu-zhengda/aliaskit/internal/cli"

func main() {
	cli.Execute()
}
