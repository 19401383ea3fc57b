package internal

import (
	"fmt"
	"log"
	"os"
	"os/user"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/earthboundkid/versioninfo/v2"
)

var sensitiveRegex = regexp.MustCompile(`(?i)(PASSWORD|API_KEY|ACCESS_KEY|SECRET|TOKEN)`)

func ShowVersion() {
	log.Printf("Version: %s\n", versioninfo.Short())
}

// Version describes the build for the version command.
func Version() string {
	return fmt.Sprintf("%s (revision %s, committed %s)",
		versioninfo.Short(), versioninfo.Revision, versioninfo.LastCommit.Format("2006-01-02"))
}

// EnvironmentVars logs the environment variables that start with one of
// prefixes (all of them when none are given), masking secrets.
func EnvironmentVars(prefixes ...string) {
	log.Println("Environment variables")
	for _, line := range environment(os.Environ(), prefixes) {
		log.Printf("  %s\n", line)
	}
}

func environment(environ []string, prefixes []string) []string {
	environ = append([]string(nil), environ...)
	sort.Slice(environ, func(i, j int) bool {
		keyI := strings.SplitN(environ[i], "=", 2)[0]
		keyJ := strings.SplitN(environ[j], "=", 2)[0]
		return keyI < keyJ
	})

	lines := make([]string, 0, len(environ))
	for _, entry := range environ {
		kv := strings.SplitN(entry, "=", 2)
		if len(kv) != 2 || !hasAnyPrefix(kv[0], prefixes) {
			continue
		}
		if sensitiveRegex.MatchString(kv[0]) {
			lines = append(lines, kv[0]+": ********")
		} else {
			lines = append(lines, kv[0]+": "+kv[1])
		}
	}
	return lines
}

func hasAnyPrefix(s string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func UserInfo() {
	log.Printf("PID: %d", os.Getpid())
	currentUser, err := user.Current()
	if err != nil {
		log.Printf("Error getting current user: %v", err)
	} else {
		log.Printf("User: uid=%s(%s) gid=%s", currentUser.Uid, currentUser.Username, currentUser.Gid)
	}
	groups, err := os.Getgroups()
	if err != nil {
		log.Printf("Error getting groups: %v", err)
	} else {
		groupNames := make([]string, 0, len(groups))
		for _, gid := range groups {
			group, err := user.LookupGroupId(strconv.Itoa(gid))
			if err != nil {
				groupNames = append(groupNames, strconv.Itoa(gid)) // Append ID if name lookup fails
			} else {
				groupNames = append(groupNames, fmt.Sprintf("%s(%s)", group.Name, group.Gid))
			}
		}
		log.Printf("Groups: %v", groupNames)
	}
}
