//go:build linux

package observability

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
)

// A container has either the docker env file or no block devices.
// Kubernetes always mounts the service account namespace.
const (
	dockerEnvPath                = "/.dockerenv"
	dockerBlockPath              = "/dev/block"
	kubernetesServiceAccountPath = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"
	procSelfCgroupPath           = "/proc/self/cgroup"
)

func pathExists(path string) (os.FileInfo, bool) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	return stat, true
}

func runningInContainer() bool {
	if stat, ok := pathExists(dockerEnvPath); ok {
		return !stat.IsDir()
	}
	_, ok := pathExists(dockerBlockPath)
	return !ok
}

func runningInKubernetes() bool {
	stat, ok := pathExists(kubernetesServiceAccountPath)
	return ok && !stat.IsDir() && stat.Size() > 0
}

const (
	uuidSource      = "[0-9a-f]{8}[-_][0-9a-f]{4}[-_][0-9a-f]{4}[-_][0-9a-f]{4}[-_][0-9a-f]{12}|[0-9a-f]{8}(?:-[0-9a-f]{4}){4}$"
	containerSource = "[0-9a-f]{64}"
	taskSource      = "[0-9a-f]{32}-\\d+"
)

var (
	// 0::/kubepods.slice/kubepods-besteffort.slice/kubepods-besteffort-pode6ac4a8d_1076_453e_9ddb_3976520e3178.slice/cri-containerd-19cd7a809d879d9c855bb93e4d399efe795a769ac856faaa5256cdd8387fe4b1.scope
	cgroupLineRegex  = regexp.MustCompile(`^\d+:[^:]*:(.+)$`)
	containerIDRegex = regexp.MustCompile(fmt.Sprintf(`(%s|%s|%s)(?:.scope)?$`, uuidSource, containerSource, taskSource))
)

// parseCgroupContainerID returns the first container id found in the
// cgroup paths, or "".
func parseCgroupContainerID(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		path := cgroupLineRegex.FindStringSubmatch(scanner.Text())
		if len(path) != 2 {
			continue
		}
		if parts := containerIDRegex.FindStringSubmatch(path[1]); len(parts) == 2 {
			return parts[1]
		}
	}
	return ""
}

func loadContainerID() string {
	f, err := os.Open(procSelfCgroupPath)
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()
	return parseCgroupContainerID(f)
}
