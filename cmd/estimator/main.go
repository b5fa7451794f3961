package main

import (
	"github.com/buildlog/estimator/internal/cli"
)

func main() {
	cli.Execute()
}
