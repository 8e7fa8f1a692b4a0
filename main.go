package main

import (
	"github.com/mateusvicente100/amazon-storage-service/cmd"
)

func main() {
	cmd.Execute()
}
