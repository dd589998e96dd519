package cli

import "msgidscope/internal/global"

func DefineOptions() (cmdOpts *global.CommandSet) {
	// Root level
	root := &global.CommandSet{
		Description:     "Message Identifier Scope (msgidscope)",
		FullDescription: "  Recovers producer address, process id and send time from broker message ids",
		CommandName:     RootCLICommand,
		ChildCommands:   make(map[string]*global.CommandSet),
		Notes: []string{
			"Ids are accepted with or without their 2 character version tag",
		},
	}

	// Decoding
	root.ChildCommands["decode"] = &global.CommandSet{
		CommandName:     "decode",
		UsageOption:     "[id ...]",
		Description:     "Decode Message Ids",
		FullDescription: "Decodes ids given as arguments, from a file, or from stdin (one id per line, optionally followed by the producer version)",
		ChildCommands:   nil,
		Notes: []string{
			"Producer versions look like V4_9_7 or V5_1_0, versions before V5_0_0 use the legacy layout",
			"Producer version '" + global.VersionAuto + "' guesses the layout from id length (34 or 26 characters is modern)",
			"Exit status is 2 when any id could not be decoded",
		},
	}

	// Local addresses
	root.ChildCommands["probe"] = &global.CommandSet{
		CommandName:     "probe",
		Description:     "Probe Local Addresses",
		FullDescription: "Lists the hardware addresses a producer on this host would embed in its ids",
		ChildCommands:   nil,
	}

	// Version routing table
	root.ChildCommands["versions"] = &global.CommandSet{
		CommandName:     "versions",
		Description:     "List Producer Versions",
		FullDescription: "Lists known producer protocol versions and the id layout each one uses",
		ChildCommands:   nil,
		Notes: []string{
			"Versions outside the list still route: unknown names compare against V5_0_0",
		},
	}

	// Query daemon
	root.ChildCommands["serve"] = &global.CommandSet{
		CommandName:     "serve",
		Description:     "Run Query Daemon",
		FullDescription: "Serves decode, probe and version lookups over HTTP for dashboards",
		ChildCommands:   nil,
		Notes: []string{
			"SIGHUP reloads the configuration file, listener settings need a restart",
		},
	}

	// Setup
	root.ChildCommands["configure"] = &global.CommandSet{
		CommandName:     "configure",
		Description:     "Setup Actions",
		FullDescription: "Generate configuration templates and validate existing configuration",
		ChildCommands:   nil,
	}

	// Version Info
	root.ChildCommands["version"] = &global.CommandSet{
		CommandName:     "version",
		Description:     "Show Version Information",
		FullDescription: "Display meta information about program",
	}

	cmdOpts = root
	return
}
