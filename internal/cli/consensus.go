package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/labelgraph/pkg/client"
	"github.com/matzehuels/labelgraph/pkg/consensus"
	lgio "github.com/matzehuels/labelgraph/pkg/io"
	"github.com/matzehuels/labelgraph/pkg/pipeline"
	"github.com/matzehuels/labelgraph/pkg/server"
)

type consensusFlags struct {
	translate bool
	counting  string
	labelSep  string
	serverURL string
	asJSON    bool
	noCache   bool
	refresh   bool
}

// consensusCommand creates the consensus command.
func (c *CLI) consensusCommand() *cobra.Command {
	var flags consensusFlags

	cmd := &cobra.Command{
		Use:   "consensus [file.graph]",
		Short: "Print the consensus label of every node",
		Long: `Print the consensus label of every node.

Each node's labels are counted and the most frequent one wins; ties are
joined with "|" and nodes without labels get "-". With --translate, atomic
numbers are replaced by element symbols when every label in the graph is one.

--counting selects how translated labels are counted: "source" counts the
element symbols among the original labels, "translated" counts them after
translation.

With --server the graph is sent to a running 'labelgraph serve' instead of
being labelled locally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConsensus(cmd.Context(), args[0], flags, cmd.Flags())
		},
	}

	cmd.Flags().BoolVar(&flags.translate, "translate", false, "translate atomic numbers into element symbols (default from config)")
	cmd.Flags().StringVar(&flags.counting, "counting", "", "count mode for translated labels: source, translated (default from config)")
	cmd.Flags().StringVar(&flags.labelSep, "label-sep", "", "label separator of the input file (default from config)")
	cmd.Flags().StringVar(&flags.serverURL, "server", "", "labelgraph server URL to compute on")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute and overwrite cached results")

	return cmd
}

func (c *CLI) consensusOptions(flags consensusFlags, fs *pflag.FlagSet) (pipeline.Options, error) {
	opts, err := c.baseOptions()
	if err != nil {
		return opts, err
	}
	if fs.Changed("translate") {
		opts.Translate = flags.translate
	}
	if fs.Changed("counting") {
		mode, err := consensus.ParseCountMode(flags.counting)
		if err != nil {
			return opts, err
		}
		opts.Counting = mode
	}
	if fs.Changed("label-sep") {
		opts.LabelSep = flags.labelSep
	}
	opts.Refresh = flags.refresh
	return opts, nil
}

// runConsensus labels input locally or on a server and prints the result.
func (c *CLI) runConsensus(ctx context.Context, input string, flags consensusFlags, fs *pflag.FlagSet) error {
	opts, err := c.consensusOptions(flags, fs)
	if err != nil {
		return err
	}

	var (
		resp   *server.ConsensusResponse
		cached bool
	)
	if flags.serverURL != "" {
		resp, err = c.remoteConsensus(ctx, input, flags.serverURL, opts)
	} else {
		resp, cached, err = c.localConsensus(ctx, input, flags.noCache, opts)
	}
	if err != nil {
		return err
	}

	if flags.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printInfo("Consensus labels for %s", StyleHighlight.Render(resp.Graph))
	for _, n := range resp.Nodes {
		printKeyValue(n.Key, n.Consensus)
	}
	if resp.Translated {
		printDetail("atomic numbers translated to element symbols (counting: %s)", opts.Counting)
	}
	printStats(len(resp.Nodes), 0, cached)
	return nil
}

func (c *CLI) localConsensus(ctx context.Context, input string, noCache bool, opts pipeline.Options) (*server.ConsensusResponse, bool, error) {
	g, err := lgio.ImportGraph(input, opts.IOOptions())
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, false, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	summary, cached, err := runner.Consensus(ctx, g, opts)
	if err != nil {
		return nil, false, err
	}
	resp := &server.ConsensusResponse{
		Graph:      g.ID,
		Translated: summary.Translated,
		Nodes:      make([]server.NodeConsensus, len(g.Nodes)),
	}
	for i, n := range g.Nodes {
		resp.Nodes[i] = server.NodeConsensus{Key: n.Key(), Consensus: summary.Result[n]}
	}
	return resp, cached, nil
}

func (c *CLI) remoteConsensus(ctx context.Context, input, serverURL string, opts pipeline.Options) (*server.ConsensusResponse, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", input, err)
	}
	c.Logger.Debug("sending graph to server", "server", serverURL, "bytes", len(data))

	resp, err := client.New(serverURL, nil).Consensus(ctx, data, client.Query{
		ID:        lgio.GraphID(input),
		LabelSep:  opts.LabelSep,
		Translate: client.Bool(opts.Translate),
		Counting:  opts.Counting.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("remote consensus: %w", err)
	}
	return resp, nil
}
