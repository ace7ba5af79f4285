package constants_test

import (
	"context"
	"fmt"

	"github.com/agentstation/curator/pkg/constants"
)

// Example shows the default pool bounds.
func Example() {
	fmt.Printf("core=%d max=%d\n", constants.DefaultCoreWorkers, constants.DefaultMaxWorkers)
	// Output: core=4 max=32
}

// Example_timeout bounds a command with the shared CLI timeout.
func Example_timeout() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.CommandTimeout)
	defer cancel()

	_, ok := ctx.Deadline()
	fmt.Println(ok)
	// Output: true
}
