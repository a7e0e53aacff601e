package env

import (
	"os"
)

// PodName is the kubernetes pod the process runs in, empty elsewhere
func PodName() string {
	return os.Getenv("PODNAME")
}
