package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that download datasets.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "space-valence-met/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ColumnMapping binds a logical score name to the column that carries it
// in a source file. All column selection is by name; positional indexing
// breaks silently when source schemas shift.
type ColumnMapping struct {
	// Name is the logical score name used in derived tables
	// (e.g. "valence", "vertical_proj").
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Column is the source file column header.
	Column string `json:"column" yaml:"column" mapstructure:"column"`
}

// PolePair describes two separately rated poles of one spatial axis.
// The bipolar score is value(Positive) - value(Negative), computed per
// word before standardization.
type PolePair struct {
	// Name is the logical score name for the differenced axis.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Positive is the column holding the positive-pole rating (e.g. "up").
	Positive string `json:"positive" yaml:"positive" mapstructure:"positive"`

	// Negative is the column holding the negative-pole rating (e.g. "down").
	Negative string `json:"negative" yaml:"negative" mapstructure:"negative"`
}

// SourceConfig describes one tabular input: a rating dataset, the
// embedding-projection table, or the frequency reference list.
type SourceConfig struct {
	// Name identifies the source in derived files and progress output.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Path is the delimited file holding the table.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// URL is the download location used by the fetch stage. Optional;
	// sources without a URL are assumed to be already on disk.
	URL string `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`

	// WordColumn is the column holding the word key. Keys are lowercased
	// and trimmed at load.
	WordColumn string `json:"word_column" yaml:"word_column" mapstructure:"word_column"`

	// Delimiter is the field separator ("," or "\t"). Empty means
	// sniff from the file extension.
	Delimiter string `json:"delimiter,omitempty" yaml:"delimiter,omitempty" mapstructure:"delimiter"`

	// Scores maps logical score names to source columns.
	Scores []ColumnMapping `json:"scores,omitempty" yaml:"scores,omitempty" mapstructure:"scores"`

	// PolePairs lists axes reported as two separate pole ratings.
	PolePairs []PolePair `json:"pole_pairs,omitempty" yaml:"pole_pairs,omitempty" mapstructure:"pole_pairs"`

	// Standardize controls per-column z-scoring after loading. Rating
	// and projection sources set this; the frequency reference does not.
	Standardize bool `json:"standardize" yaml:"standardize" mapstructure:"standardize"`

	// AlwaysKeep marks a source whose words survive the frequency filter
	// even when absent from the reference list. Rating sources set this.
	AlwaysKeep bool `json:"always_keep" yaml:"always_keep" mapstructure:"always_keep"`
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// DownloadDelay is the delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay" mapstructure:"download_delay"`

	// DataDir is the base directory for datasets (contains raw/, metadata/).
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// SampleConfig holds settings for the quartile label sampler.
type SampleConfig struct {
	// Seed initializes the pseudo-random generator. The same seed with
	// the same input table always selects the same words.
	Seed int64 `json:"seed" yaml:"seed" mapstructure:"seed"`

	// NEdge is the number of rows drawn from each outer quartile bin.
	NEdge int `json:"n_edge" yaml:"n_edge" mapstructure:"n_edge"`

	// NMid is the number of rows drawn from each inner quartile bin.
	NMid int `json:"n_mid" yaml:"n_mid" mapstructure:"n_mid"`

	// StrictBins makes a bin smaller than its requested draw a hard
	// error. When false, short bins are returned whole.
	StrictBins bool `json:"strict_bins" yaml:"strict_bins" mapstructure:"strict_bins"`
}

// StoreConfig holds settings for the norms database stage.
type StoreConfig struct {
	// AnalysisDir is the base directory for derived tables (contains
	// index/ with the SQLite database).
	AnalysisDir string `json:"analysis_dir" yaml:"analysis_dir" mapstructure:"analysis_dir"`

	// MaxResults is the default maximum number of lookup results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// PlotConfig holds settings for the plot stage.
type PlotConfig struct {
	// PlotsDir is the output directory for point and label files.
	PlotsDir string `json:"plots_dir" yaml:"plots_dir" mapstructure:"plots_dir"`

	// RendererImage is the container image used by --render to turn a
	// points file into an SVG chart.
	RendererImage string `json:"renderer_image" yaml:"renderer_image" mapstructure:"renderer_image"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Sources   []SourceConfig `json:"sources" yaml:"sources" mapstructure:"sources"`
	Frequency SourceConfig   `json:"frequency" yaml:"frequency" mapstructure:"frequency"`
	Fetch     FetchConfig    `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Sample    SampleConfig   `json:"sample" yaml:"sample" mapstructure:"sample"`
	Store     StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	Plot      PlotConfig     `json:"plot" yaml:"plot" mapstructure:"plot"`
}
