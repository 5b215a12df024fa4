package output

import "fmt"

// StartupLine is printed once before dispatch.
func StartupLine(total, threads int) string {
	return fmt.Sprintf("Total files: %d | Threads: %d", total, threads)
}

func PrintStartup(total, threads int) {
	PrintHeader(StartupLine(total, threads))
}
