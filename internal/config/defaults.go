package config

const (
	defaultConfigPath       = "~/.config/paxmatch/config.toml"
	projectConfigName       = "paxmatch.toml"
	defaultStateDir         = "~/.local/share/paxmatch"
	defaultDecisionsDir     = "~/paxmatch/decisions"
	defaultOutputDir        = "~/paxmatch/output"
	defaultFullNameColumn   = ""
	defaultLastNameColumn   = "Last Name"
	defaultFirstNameColumn  = "First Name"
	defaultEmployeeIDColumn = "Employee ID"
	defaultNameColumn       = "Traveler"
	defaultDateColumn       = "Date"
	defaultDepartmentColumn = "Department"
	defaultDateLayout       = "2006-01-02"
	defaultNGramSize        = 2
	defaultMinSimilarity    = 0.1
	defaultWeighting        = WeightingTFIDF
	defaultReviewBaseName   = "name_matches"
	defaultPseudonymPrefix  = "pax"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	envDecisionsDir         = "PAXMATCH_DECISIONS_DIR"
	envOutputDir            = "PAXMATCH_OUTPUT_DIR"
	envRoster               = "PAXMATCH_ROSTER"
	envBookings             = "PAXMATCH_BOOKINGS"
)

// Weighting modes for n-gram fingerprints.
const (
	WeightingTFIDF = "tfidf"
	WeightingTF    = "tf"
)

// Default returns a Config populated with repository defaults. The decisions
// and output directories stay empty so environment fallbacks can fill them
// during normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Roster: Roster{
			FullNameColumn:   defaultFullNameColumn,
			LastNameColumn:   defaultLastNameColumn,
			FirstNameColumn:  defaultFirstNameColumn,
			EmployeeIDColumn: defaultEmployeeIDColumn,
		},
		Bookings: Bookings{
			NameColumn:       defaultNameColumn,
			DateColumn:       defaultDateColumn,
			DepartmentColumn: defaultDepartmentColumn,
			DateLayout:       defaultDateLayout,
		},
		Matching: Matching{
			NGramSize:     defaultNGramSize,
			MinSimilarity: defaultMinSimilarity,
			Weighting:     defaultWeighting,
		},
		Review: Review{
			BaseName: defaultReviewBaseName,
		},
		Output: Output{
			WriteIdentities: true,
			Pseudonymize:    false,
			PseudonymPrefix: defaultPseudonymPrefix,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
