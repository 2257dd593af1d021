//go:build !linux

package observability

func runningInContainer() bool { return false }

func runningInKubernetes() bool { return false }

func loadContainerID() string { return "" }
