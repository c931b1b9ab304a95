// pkg/platform/ubuntu.go

package platform

import (
	"os"
	"strings"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	goversion "github.com/hashicorp/go-version"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// MinSupportedUbuntu is the oldest release theke is exercised against.
const MinSupportedUbuntu = "20.04"

// UbuntuRelease describes the host's Ubuntu release.
type UbuntuRelease struct {
	ID         string // e.g. "ubuntu"
	VersionID  string // e.g. "24.04"
	Codename   string // e.g. "noble"
	PrettyName string // e.g. "Ubuntu 24.04.2 LTS"
}

// DetectUbuntuRelease parses /etc/os-release.
func DetectUbuntuRelease(rc *theke_io.RuntimeContext) (*UbuntuRelease, error) {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Debug("Detecting Ubuntu release")

	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return nil, cerr.Wrap(err, "failed to read /etc/os-release")
	}
	return parseOSRelease(string(data)), nil
}

// CheckSupport classifies the detected release. A non-Ubuntu host or a
// release older than MinSupportedUbuntu is advisory: the caller warns and
// lets the operator opt to continue.
func CheckSupport(release *UbuntuRelease) (supported bool, reason string) {
	if release.ID != "ubuntu" {
		return false, "host is not Ubuntu (detected: " + release.ID + ")"
	}

	detected, err := goversion.NewVersion(release.VersionID)
	if err != nil {
		return false, "could not parse Ubuntu version " + release.VersionID
	}
	minimum := goversion.Must(goversion.NewVersion(MinSupportedUbuntu))
	if detected.LessThan(minimum) {
		return false, "Ubuntu " + release.VersionID + " is older than the supported minimum " + MinSupportedUbuntu
	}
	return true, ""
}

func parseOSRelease(content string) *UbuntuRelease {
	release := &UbuntuRelease{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		value = strings.Trim(value, `"`)
		switch key {
		case "ID":
			release.ID = value
		case "VERSION_ID":
			release.VersionID = value
		case "VERSION_CODENAME":
			release.Codename = value
		case "PRETTY_NAME":
			release.PrettyName = value
		}
	}
	return release
}
