package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	selfupdate "github.com/gwillem/go-selfupdate"
)

type updateArg struct {
	URL string `long:"url" description:"Download location of the simprint binary"`
}

var defaultUpdateURL = fmt.Sprintf("https://sansec.io/downloads/%s-%s/simprint", runtime.GOOS, runtime.GOARCH)

func init() {
	cli.AddCommand("update", "Update simprint binary", "Download and install the latest simprint binary", &updateArg{})
}

func (u *updateArg) Execute(_ []string) error {
	url := u.URL
	if url == "" {
		url = defaultUpdateURL
	}
	fmt.Fprintln(stdout, "Checking for updates...")
	updated, err := selfupdate.Update(url)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	if !updated {
		fmt.Fprintln(stdout, "Already running latest version", simprintVersion)
		return nil
	}

	newVersion, err := installedVersion()
	if err != nil {
		fmt.Fprintf(stdout, "Updated from %s (could not determine new version: %v)\n", simprintVersion, err)
	} else {
		fmt.Fprintf(stdout, "Updated %s -> %s\n", simprintVersion, newVersion)
	}
	return nil
}

// installedVersion runs the updated binary with --version.
func installedVersion() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	out, err := exec.Command(exe, "--version").Output()
	if err != nil {
		return "", err
	}
	return parseVersion(string(out)), nil
}

// parseVersion extracts the version from "simprint v1.2.3\n".
func parseVersion(out string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(out), "simprint"))
}
