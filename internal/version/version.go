package version

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the service version. The minor part selects the migration directory.
var Version = "0.2.0"

func GetCurrentVersion() string {
	return Version
}

// GetMinorVersion returns "0.2" for "0.2.1".
func GetMinorVersion(version string) string {
	versionList := strings.Split(version, ".")
	if len(versionList) < 2 {
		return ""
	}
	return versionList[0] + "." + versionList[1]
}

// GetSchemaVersion drops the patch number, patches never change the schema.
func GetSchemaVersion(version string) string {
	minorVersion := GetMinorVersion(version)
	if minorVersion == "" {
		return ""
	}
	return minorVersion + ".0"
}

// IsVersionGreaterOrEqualThan returns true if version is greater than or equal to target.
func IsVersionGreaterOrEqualThan(version, target string) bool {
	return semver.Compare(fmt.Sprintf("v%s", version), fmt.Sprintf("v%s", target)) > -1
}

// IsVersionGreaterThan returns true if version is greater than target.
func IsVersionGreaterThan(version, target string) bool {
	return semver.Compare(fmt.Sprintf("v%s", version), fmt.Sprintf("v%s", target)) > 0
}

// SortVersion sorts versions in place in ascending semver order.
func SortVersion(versions []string) {
	sort.Slice(versions, func(i, j int) bool {
		return semver.Compare(fmt.Sprintf("v%s", versions[i]), fmt.Sprintf("v%s", versions[j])) < 0
	})
}
