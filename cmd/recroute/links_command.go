package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recroute/internal/graph"
)

type linkGroupJSON struct {
	CommonDevice string   `json:"common_device"`
	PeerDevice   string   `json:"peer_device"`
	Channel      string   `json:"channel"`
	Side         string   `json:"side"`
	Links        []string `json:"links"`
}

func newLinksCommand(ctx *commandContext) *cobra.Command {
	var deviceFilter string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "links",
		Short: "Show the current link groups in the audio graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := ctx.provider(false)
			if err != nil {
				return err
			}
			groups, err := provider.ListLinkGroups(cmd.Context())
			if err != nil {
				return err
			}
			groups = filterGroups(groups, deviceFilter)

			if jsonOutput {
				payload := make([]linkGroupJSON, 0, len(groups))
				for _, group := range groups {
					links := make([]string, 0, len(group.Links))
					for _, link := range group.Links {
						links = append(links, link.String())
					}
					payload = append(payload, linkGroupJSON{
						CommonDevice: group.CommonDevice,
						PeerDevice:   group.PeerDevice,
						Channel:      group.Channel,
						Side:         string(group.Side),
						Links:        links,
					})
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			if len(groups) == 0 {
				fmt.Fprintln(out, "No links found")
				return nil
			}
			rows := make([][]string, 0, len(groups))
			for _, group := range groups {
				rows = append(rows, []string{
					group.CommonDevice,
					group.Channel,
					string(group.Side),
					group.PeerDevice,
					strconv.Itoa(len(group.Links)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Device", "Channel", "Side", "Peer", "Links"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&deviceFilter, "device", "d", "", "Only show groups whose device matches (case-insensitive substring)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit link groups as JSON")
	return cmd
}

func filterGroups(groups []graph.LinkGroup, device string) []graph.LinkGroup {
	needle := strings.ToLower(strings.TrimSpace(device))
	if needle == "" {
		return groups
	}
	filtered := make([]graph.LinkGroup, 0, len(groups))
	for _, group := range groups {
		if strings.Contains(strings.ToLower(group.CommonDevice), needle) {
			filtered = append(filtered, group)
		}
	}
	return filtered
}
