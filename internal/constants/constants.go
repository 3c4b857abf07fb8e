// Package constants holds the fixed names and paths used by sendtoftrack.
package constants

import "path/filepath"

// ProcessName is the image name of the ftrack Connect desktop application,
// without any platform executable suffix.
const ProcessName = "ftrack_connect_package"

// SourceDirName is the bundled plugin directory shipped next to the executable.
const SourceDirName = "ftrack-connect"

// ConfigFileName is the optional config file looked up next to the executable.
const ConfigFileName = "sendtoftrack.toml"

// LockFileName is the advisory lock taken in the temp dir for the duration of a run.
const LockFileName = "sendtoftrack.lock"

// pluginDirParts is the per-user plugin directory relative to the home directory.
var pluginDirParts = []string{"AppData", "Local", "ftrack", "ftrack-connect-plugins"}

// PluginDir returns the ftrack Connect plugin directory under home.
func PluginDir(home string) string {
	return filepath.Join(append([]string{home}, pluginDirParts...)...)
}

// Console messages shown at the end of a run.
const (
	MsgClosing        = "Closing ftrack connect app"
	MsgCopying        = "Copying files"
	MsgRestarting     = "Restarting ftrack connect app"
	MsgStartManually  = "Cannot locate ftrack, please start ftrack connect manually."
	MsgRestartFailed  = "Failed to close process :-( Please restart ftrack manually."
	MsgPressAnyKey    = "Press any key to close this window."
	MsgSourceMissing  = "The directory does not exist!"
)
