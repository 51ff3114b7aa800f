package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ServeCommand starts the HTTP API server.
type ServeCommand struct {
	Host   string `long:"host" description:"Override listen host"`
	Port   int    `long:"port" description:"Override listen port"`
	Memory bool   `long:"memory" description:"Serve from a volatile in-memory store instead of the database"`

	globals *GlobalFlags
	version string
}

// ReportCommand submits a new incident report.
type ReportCommand struct {
	Name        string `long:"name" description:"Reporter name"`
	Contact     string `long:"contact" description:"Reporter contact info"`
	Location    string `long:"location" description:"Incident location (required)"`
	Type        string `long:"type" description:"Incident type (required)"`
	Date        string `long:"date" description:"Incident date (dd-mm-yyyy or yyyy-mm-dd)"`
	Time        string `long:"time" description:"Incident time (HH:MM)"`
	Description string `long:"description" description:"What happened (required)"`

	globals *GlobalFlags
	version string
}

// RecordCommand adds a police record entry.
type RecordCommand struct {
	Name              string `long:"name" description:"Person name (required)"`
	Alias             string `long:"alias" description:"Known alias"`
	CrimeType         string `long:"crime-type" description:"Crime type (required)"`
	RiskLevel         string `long:"risk-level" description:"Risk level: Low | Medium | High" choice:"Low" choice:"Medium" choice:"High"`
	LastKnownLocation string `long:"last-known-location" description:"Last known location"`
	Notes             string `long:"notes" description:"Additional notes"`

	globals *GlobalFlags
	version string
}

// ContactCommand sends a contact message.
type ContactCommand struct {
	Name    string `long:"name" description:"Sender name"`
	Email   string `long:"email" description:"Sender email"`
	Message string `long:"message" description:"Message body (required)"`

	globals *GlobalFlags
	version string
}

// ListCommand lists reports or records with optional filters.
type ListCommand struct {
	Records bool   `long:"records" description:"List police records instead of reports"`
	Type    string `long:"type" description:"Filter reports by exact incident type"`
	Search  string `long:"search" description:"Case-insensitive search term"`

	globals *GlobalFlags
	version string
}

// ShowCommand prints a single report by identifier.
type ShowCommand struct {
	ID int64 `long:"id" description:"Report identifier (required)"`

	globals *GlobalFlags
	version string
}

// DeleteCommand deletes a report or record by identifier.
type DeleteCommand struct {
	Record bool  `long:"record" description:"Delete a police record instead of a report"`
	ID     int64 `long:"id" description:"Entity identifier (required)"`

	globals *GlobalFlags
	version string
}

// StatsCommand prints analytics distributions.
type StatsCommand struct {
	globals *GlobalFlags
	version string
}

// StatusCommand shows database totals and configuration summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// WatchCommand follows the change marker and prints each update.
type WatchCommand struct {
	globals *GlobalFlags
	version string
}

// PurgeCommand deletes ALL data with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
}
