package config

// Application constants
const (
	// Application Info
	AppName    = "batcli"
	AppVersion = "1.0.0"

	// Configuration sources
	EnvPrefix         = "BAT"
	ConfigEnvVar      = "BAT_CONFIG"
	DefaultConfigFile = "batcli.yaml"

	// Input defaults
	DefaultLandingsFile  = "dataset1.csv"
	DefaultIntervalsFile = "dataset2.csv"

	// DefaultTimeLayout is day-first DD/MM/YYYY HH:MM. Day, month, hour and
	// minute accept one or two digits.
	DefaultTimeLayout = "2/1/2006 15:4"

	// CanonicalTimeLayout is how cleaned timestamps are written back
	CanonicalTimeLayout = "2006-01-02 15:04:05"

	// Analysis defaults
	DefaultAlpha     = 0.05
	DefaultFillHabit = "unknown"

	// Output defaults
	DefaultOutputDir = "reports"
)

// Artifact file names written into the output directory
const (
	VigilancePlotFile = "vigilance_boxplot.png"
	AvoidancePlotFile = "avoidance_boxplot.png"
	CleanedCSVFile    = "cleaned_landings.csv"
	VigilanceCSVFile  = "vigilance_summary.csv"
	HabitsCSVFile     = "habit_by_risk.csv"
	AvoidanceCSVFile  = "avoidance_summary.csv"
	WorkbookFile      = "bat_analysis.xlsx"
	ReportJSONFile    = "report.json"
)
