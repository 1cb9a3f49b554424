package main

import (
	"context"
	"fmt"
	"os"

	"imagesense/internal/bootstrap"
)

func main() {
	if err := bootstrap.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "imagesense-server failed: %v\n", err)
		os.Exit(1)
	}
}
