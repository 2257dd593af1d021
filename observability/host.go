package observability

import (
	"runtime"

	"go.uber.org/zap/zapcore"
)

// HostEnv describes where the process runs. Bench numbers are only
// comparable between runs on the same kind of host.
type HostEnv struct {
	GOOS        string
	GOARCH      string
	NumCPU      int
	GOMAXPROCS  int
	Container   bool
	Kubernetes  bool
	ContainerID string
}

var _ zapcore.ObjectMarshaler = HostEnv{}

func DetectHostEnv() HostEnv {
	return HostEnv{
		GOOS:        runtime.GOOS,
		GOARCH:      runtime.GOARCH,
		NumCPU:      runtime.NumCPU(),
		GOMAXPROCS:  runtime.GOMAXPROCS(0),
		Container:   runningInContainer(),
		Kubernetes:  runningInKubernetes(),
		ContainerID: loadContainerID(),
	}
}

func (env HostEnv) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("os", env.GOOS)
	enc.AddString("arch", env.GOARCH)
	enc.AddInt("cpus", env.NumCPU)
	enc.AddInt("maxprocs", env.GOMAXPROCS)
	enc.AddBool("container", env.Container)
	enc.AddBool("kubernetes", env.Kubernetes)
	if len(env.ContainerID) > 0 {
		enc.AddString("containerId", env.ContainerID)
	}
	return nil
}
