package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// Version is the build version, overridden with -ldflags "-X ...cli.Version=x.y.z".
var Version = "0.1.0"

const updateRepo = "Fepozopo/point"

var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

// updater carries the pieces of the update check that tests replace.
type updater struct {
	client   *http.Client
	apiURL   string
	apply    func(assetURL, exe string) error
	execPath func() (string, error)
}

func newUpdater() *updater {
	return &updater{
		client:   &http.Client{Timeout: 10 * time.Second},
		apiURL:   fmt.Sprintf("https://api.github.com/repos/%s/releases", updateRepo),
		apply:    selfupdate.UpdateTo,
		execPath: os.Executable,
	}
}

// latestRelease queries the GitHub releases API and returns the highest
// published, non-prerelease semver release, or (nil, nil) when none exists.
func (u *updater) latestRelease() (*selfupdate.Release, error) {
	resp, err := u.client.Get(u.apiURL)
	if err != nil {
		return nil, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading github response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var releases []struct {
		TagName    string `json:"tag_name"`
		Name       string `json:"name"`
		Draft      bool   `json:"draft"`
		Prerelease bool   `json:"prerelease"`
		Assets     []struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		} `json:"assets"`
	}
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, fmt.Errorf("failed to decode github releases: %w", err)
	}

	type candidate struct {
		ver      semver.Version
		assetURL string
	}
	var candidates []candidate
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		match := semverRe.FindString(r.TagName)
		if match == "" {
			match = semverRe.FindString(r.Name)
			if match == "" {
				continue
			}
		}
		v, err := semver.Parse(strings.TrimPrefix(match, "v"))
		if err != nil {
			continue
		}
		assetURL := ""
		for _, a := range r.Assets {
			name := strings.ToLower(a.Name)
			if strings.Contains(name, "linux") || strings.Contains(name, "darwin") || strings.Contains(name, "windows") {
				assetURL = a.BrowserDownloadURL
				break
			}
			if assetURL == "" {
				assetURL = a.BrowserDownloadURL
			}
		}
		candidates = append(candidates, candidate{ver: v, assetURL: assetURL})
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ver.GT(candidates[j].ver)
	})
	best := candidates[0]
	return &selfupdate.Release{Version: best.ver, AssetURL: best.assetURL}, nil
}

// checkForUpdates compares the running version with the latest release and,
// after confirmation on in, replaces the executable.
func (u *updater) checkForUpdates(in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Current version: %s\n", Version)
	latest, err := u.latestRelease()
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if latest == nil {
		fmt.Fprintf(out, "No releases found for %s.\n", updateRepo)
		return nil
	}
	fmt.Fprintf(out, "Latest version: %s\n", latest.Version)

	current, perr := semver.Parse(strings.TrimPrefix(Version, "v"))
	if perr != nil {
		fmt.Fprintf(out, "warning: could not parse current version %q: %v\n", Version, perr)
	} else if !latest.Version.GT(current) {
		fmt.Fprintf(out, "You are already running the latest version: %s.\n", current)
		return nil
	}

	if latest.AssetURL == "" {
		fmt.Fprintf(out, "A new version (%s) is available but there is no downloadable asset.\n", latest.Version)
		return nil
	}

	fmt.Fprintf(out, "A new version (%s) is available. Update now? (y/N): ", latest.Version)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(out, "Update cancelled.")
		return nil
	}

	exe, err := u.execPath()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	if err := u.apply(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	fmt.Fprintf(out, "Updated to version %s.\n", latest.Version)
	return nil
}
