package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roasbeef/pushclash/internal/profile"
	"github.com/roasbeef/pushclash/internal/roast"
	"github.com/roasbeef/pushclash/internal/web"
)

var streamOutput bool

var profileCmd = &cobra.Command{
	Use:   "profile <username>",
	Short: "Roast a LeetCode profile",
	Long: `Fetch the public LeetCode profile of <username> and print a roast of
it along with the headline stats. With --stream the roast is printed as it
is generated.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().BoolVar(
		&streamOutput, "stream", false,
		"Print the roast as it is generated",
	)
}

func runProfile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	client, err := getClient()
	if err != nil {
		return err
	}

	if streamOutput {
		if outputFormat == "json" {
			enc := json.NewEncoder(out)
			return client.StreamRoast(ctx, args[0],
				func(msg web.StreamMessage) {
					_ = enc.Encode(msg)
				},
			)
		}

		return client.StreamRoast(ctx, args[0], func(msg web.StreamMessage) {
			printStreamMessage(out, msg)
		})
	}

	resp, err := client.Roast(ctx, args[0])
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return outputJSON(out, resp)
	}

	fmt.Fprint(out, formatHeader(resp.User, resp.Stats, resp.Outcome))
	fmt.Fprintln(out, resp.RoastResult)

	return nil
}

// printStreamMessage renders one stream message as text.
func printStreamMessage(w io.Writer, msg web.StreamMessage) {
	switch msg.Type {
	case web.StreamMsgHeader:
		if msg.User != nil && msg.Stats != nil {
			fmt.Fprint(w, formatHeader(*msg.User, *msg.Stats,
				msg.Outcome))
		}

	case web.StreamMsgFragment:
		fmt.Fprint(w, msg.Text)

	case web.StreamMsgDone:
		fmt.Fprintln(w)
	}
}

// formatHeader renders the identity and stats block.
func formatHeader(user roast.UserView, stats roast.StatsView,
	outcome profile.Kind) string {

	var b strings.Builder

	fmt.Fprintf(&b, "%s (@%s)\n", user.Name, user.Username)
	switch outcome {
	case profile.KindNotFound:
		b.WriteString("No such LeetCode user.\n")

	case profile.KindUpstreamFailure:
		b.WriteString("LeetCode could not be reached.\n")

	default:
		fmt.Fprintf(&b, "Solved: %d (easy %d, medium %d, hard %d)\n",
			stats.TotalSolved, stats.EasySolved, stats.MediumSolved,
			stats.HardSolved)
		fmt.Fprintf(&b, "Acceptance: %.1f%%\n", stats.AcceptanceRate)
		if stats.Ranking != nil {
			fmt.Fprintf(&b, "Ranking: #%d\n", *stats.Ranking)
		}
	}
	b.WriteString(strings.Repeat("-", 40) + "\n")

	return b.String()
}
