package main

import (
	"github.com/architeacher/svc-health-gate/internal/runtime"
)

func main() {
	runtime.New().Run()
}
