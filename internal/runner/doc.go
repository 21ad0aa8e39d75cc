// Package runner defines the narrow interface every external invocation (git,
// npm, npx) goes through, and its os/exec implementation. Tests substitute
// runnertest.Recorder to record invocations instead of shelling out.
package runner
