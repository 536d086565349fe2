package shared

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"

	"github.com/scan-io-git/scanio-fxcop/pkg/shared/config"
)

type Scanner interface {
	Setup(configData config.Config) (bool, error)
	Scan(args ScannerScanRequest) (ScannerScanResponse, error)
}

// ScannerScanRequest represents a single FxCop analysis request.
type ScannerScanRequest struct {
	TargetPath     string            // Base directory of the analysed project
	ResultsPath    string            // Path to save the normalized results
	ConfigPath     string            // Path to the analysis properties file
	ReportFormat   string            // json or sarif
	Language       string            // cs or vbnet
	RulesetPath    string            // Optional ruleset to use instead of the generated one
	Properties     map[string]string // Analysis properties overriding the properties file
	AdditionalArgs []string          // key=value analysis properties from the command line
}

// ScannerScanResponse describes the outcome of a scan.
type ScannerScanResponse struct {
	ResultsPath string
	Mode        string
	Target      string
	IssueCount  int
	Skipped     bool
}

type ScannerRPCClient struct{ client *rpc.Client }

func (g *ScannerRPCClient) Setup(configData config.Config) (bool, error) {
	var resp bool
	err := g.client.Call("Plugin.Setup", configData, &resp)
	if err != nil {
		return false, err
	}
	return resp, nil
}

func (g *ScannerRPCClient) Scan(req ScannerScanRequest) (ScannerScanResponse, error) {
	var resp ScannerScanResponse

	err := g.client.Call("Plugin.Scan", req, &resp)
	if err != nil {
		return resp, err
	}

	return resp, nil
}

type ScannerRPCServer struct {
	Impl Scanner
}

func (s *ScannerRPCServer) Setup(configData config.Config, resp *bool) error {
	var err error
	*resp, err = s.Impl.Setup(configData)
	return err
}

func (s *ScannerRPCServer) Scan(args ScannerScanRequest, resp *ScannerScanResponse) error {
	var err error
	*resp, err = s.Impl.Scan(args)
	return err
}

type ScannerPlugin struct {
	Impl Scanner
}

func (p *ScannerPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &ScannerRPCServer{Impl: p.Impl}, nil
}

func (ScannerPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &ScannerRPCClient{client: c}, nil
}
