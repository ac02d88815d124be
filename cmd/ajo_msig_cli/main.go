package main

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ajolabs/ajo-multisig/engine/modules/keystore"
	proposal_service "github.com/ajolabs/ajo-multisig/engine/services/proposal"
	"github.com/ajolabs/ajo-multisig/engine/types"
)

const (
	flagListenAddr = "listen_addr"
	flagUserName   = "username"
	flagStoreDBDSN = "key_store_dbdsn"
)

func init() {
	rootCmd.PersistentFlags().String(flagListenAddr, "localhost:8080", "Listen Address")
	rootCmd.PersistentFlags().String(flagUserName, "operator", "Username of the local keystore entry")
	rootCmd.PersistentFlags().String(flagStoreDBDSN, "./ajo_msig_key_store", "Key Store DBDSN")
}

var rootCmd = &cobra.Command{
	Use:   "ajo_msig_cli",
	Short: "ajo multi-signature engine cli utilities",
}

func main() {
	rootCmd.AddCommand(
		createConfigCommand(),
		getConfigCommand(),
		createProposalCommand(),
		signProposalCommand(),
		executeProposalCommand(),
		getProposalCommand(),
		getGroupProposalsCommand(),
		sweepExpiredCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute root command: %v", err)
	}
}

func rawPostRequest(url string, data []byte) (*Response, error) {
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	var response Response
	if err = json.Unmarshal(responseBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %v", err)
	}
	return &response, nil
}

func getConfigRequest(host, groupID string) (*ConfigResponse, error) {
	resp, err := http.Get(fmt.Sprintf("http://%s/getMultiSigConfig?groupID=%s", host, groupID))
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	var response ConfigResponse
	if err = json.Unmarshal(responseBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %v", err)
	}
	return &response, nil
}

func getProposalRequest(host, proposalID string) (*ProposalResponse, error) {
	resp, err := http.Get(fmt.Sprintf("http://%s/getProposal?proposalID=%s", host, proposalID))
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	var response ProposalResponse
	if err = json.Unmarshal(responseBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %v", err)
	}
	return &response, nil
}

func getGroupProposalsRequest(host, groupID, status string) (*ProposalsResponse, error) {
	url := fmt.Sprintf("http://%s/getGroupProposals?groupID=%s", host, groupID)
	if status != "" {
		url += "&status=" + strings.ToUpper(status)
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	var response ProposalsResponse
	if err = json.Unmarshal(responseBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %v", err)
	}
	return &response, nil
}

func coloredStatus(status types.ProposalStatus) string {
	switch status {
	case types.ProposalPending:
		return color.YellowString(status.String())
	case types.ProposalApproved:
		return color.CyanString(status.String())
	case types.ProposalExecuted:
		return color.GreenString(status.String())
	default:
		return color.RedString(status.String())
	}
}

func printProposal(p *types.Proposal) {
	fmt.Printf("Proposal ID: %s\n", p.ID)
	fmt.Printf("Group ID: %s\n", p.GroupID)
	fmt.Printf("Operation: %s\n", p.Operation)
	fmt.Printf("Status: %s\n", coloredStatus(p.Status))
	fmt.Printf("Signatures: %d of %d\n", p.CurrentSigs, p.RequiredSigs)
	fmt.Printf("Payload hash: %s\n", p.PayloadHash)
	fmt.Printf("Expires at: %s\n", p.ExpiresAt)
	if p.ExecutedReference != "" {
		fmt.Printf("Executed reference: %s\n", p.ExecutedReference)
	}
}

func createConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create_config [group_id] [threshold] [signer_addr...]",
		Args:  cobra.MinimumNArgs(3),
		Short: "creates a multi-signature config for a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			threshold, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("failed to parse threshold: %w", err)
			}

			type signerEntry struct {
				Addr   string `json:"addr"`
				Weight int    `json:"weight"`
			}
			request := struct {
				GroupID   string        `json:"group_id"`
				Threshold int           `json:"threshold"`
				Signers   []signerEntry `json:"signers"`
			}{
				GroupID:   args[0],
				Threshold: threshold,
			}
			for _, addr := range args[2:] {
				request.Signers = append(request.Signers, signerEntry{Addr: addr, Weight: 1})
			}

			requestBz, err := json.Marshal(&request)
			if err != nil {
				return fmt.Errorf("failed to marshal request: %w", err)
			}

			resp, err := rawPostRequest(fmt.Sprintf("http://%s/createMultiSigConfig", listenAddr), requestBz)
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to create config: %s", resp.ErrorMessage)
			}
			fmt.Printf("config created for group %s with threshold %d\n", args[0], threshold)
			return nil
		},
	}
}

func getConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_config [group_id]",
		Args:  cobra.ExactArgs(1),
		Short: "returns the group's multi-signature config",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			resp, err := getConfigRequest(listenAddr, args[0])
			if err != nil {
				return fmt.Errorf("failed to get config: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to get config: %s", resp.ErrorMessage)
			}

			config := resp.Result
			fmt.Printf("Group ID: %s\n", config.GroupID)
			fmt.Printf("Threshold: %d of %d\n", config.Threshold, config.TotalSigners)
			for _, signer := range config.Signers {
				state := "active"
				if !signer.Active {
					state = "inactive"
				}
				fmt.Printf("  %s (weight %d, %s)\n", signer.Addr, signer.Weight, state)
			}
			return nil
		},
	}
}

func createProposalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "propose [group_id] [operation] [payload] [expires_in_seconds]",
		Args:  cobra.MinimumNArgs(3),
		Short: "proposes a group operation; the payload is the opaque ledger transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			keyPair, err := loadKeyPair(cmd)
			if err != nil {
				return err
			}

			var expiresIn int64
			if len(args) > 3 {
				expiresIn, err = strconv.ParseInt(args[3], 10, 64)
				if err != nil {
					return fmt.Errorf("failed to parse expires_in_seconds: %w", err)
				}
			}

			request := struct {
				GroupID          string `json:"group_id"`
				ProposerAddr     string `json:"proposer_addr"`
				Operation        string `json:"operation"`
				Payload          []byte `json:"payload"`
				ExpiresInSeconds int64  `json:"expires_in_seconds"`
			}{
				GroupID:          args[0],
				ProposerAddr:     keyPair.GetAddr(),
				Operation:        args[1],
				Payload:          []byte(args[2]),
				ExpiresInSeconds: expiresIn,
			}

			requestBz, err := json.Marshal(&request)
			if err != nil {
				return fmt.Errorf("failed to marshal request: %w", err)
			}

			resp, err := rawPostRequest(fmt.Sprintf("http://%s/createProposal", listenAddr), requestBz)
			if err != nil {
				return fmt.Errorf("failed to create proposal: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to create proposal: %s", resp.ErrorMessage)
			}

			var proposal types.Proposal
			if err := json.Unmarshal(resp.Result, &proposal); err != nil {
				return fmt.Errorf("failed to unmarshal proposal: %w", err)
			}
			printProposal(&proposal)
			return nil
		},
	}
}

func signProposalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sign [proposal_id]",
		Args:  cobra.ExactArgs(1),
		Short: "signs the proposal payload digest with the local keystore key and submits the signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			keyPair, err := loadKeyPair(cmd)
			if err != nil {
				return err
			}

			proposalResp, err := getProposalRequest(listenAddr, args[0])
			if err != nil {
				return fmt.Errorf("failed to get proposal: %w", err)
			}
			if proposalResp.ErrorMessage != "" {
				return fmt.Errorf("failed to get proposal: %s", proposalResp.ErrorMessage)
			}

			proposal := proposalResp.Result
			signature := ed25519.Sign(keyPair.Priv, types.PayloadDigest(proposal.Payload))

			request := struct {
				ProposalID string `json:"proposal_id"`
				SignerAddr string `json:"signer_addr"`
				Signature  []byte `json:"signature"`
			}{
				ProposalID: proposal.ID,
				SignerAddr: keyPair.GetAddr(),
				Signature:  signature,
			}

			requestBz, err := json.Marshal(&request)
			if err != nil {
				return fmt.Errorf("failed to marshal request: %w", err)
			}

			signResp, err := rawPostRequest(fmt.Sprintf("http://%s/signProposal", listenAddr), requestBz)
			if err != nil {
				return fmt.Errorf("failed to sign proposal: %w", err)
			}
			if signResp.ErrorMessage != "" {
				return fmt.Errorf("failed to sign proposal: %s", signResp.ErrorMessage)
			}

			var result proposal_service.SignProposalResult
			if err := json.Unmarshal(signResp.Result, &result); err != nil {
				return fmt.Errorf("failed to unmarshal sign result: %w", err)
			}

			fmt.Printf("signature accepted: %d of %d, status %s\n",
				result.CurrentSigs, result.RequiredSigs, coloredStatus(result.Status))
			if result.ReadyToExecute {
				fmt.Println(color.GreenString("proposal is ready to execute"))
			}
			return nil
		},
	}
}

func executeProposalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "execute [proposal_id]",
		Args:  cobra.ExactArgs(1),
		Short: "executes an approved proposal by submitting it to the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			request := struct {
				ProposalID string `json:"proposalID"`
			}{
				ProposalID: args[0],
			}
			requestBz, err := json.Marshal(&request)
			if err != nil {
				return fmt.Errorf("failed to marshal request: %w", err)
			}

			resp, err := rawPostRequest(fmt.Sprintf("http://%s/executeProposal", listenAddr), requestBz)
			if err != nil {
				return fmt.Errorf("failed to execute proposal: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to execute proposal: %s", resp.ErrorMessage)
			}

			var result proposal_service.ExecuteProposalResult
			if err := json.Unmarshal(resp.Result, &result); err != nil {
				return fmt.Errorf("failed to unmarshal execute result: %w", err)
			}

			fmt.Printf("proposal executed, status %s\n", coloredStatus(result.Status))
			fmt.Printf("ledger reference: %s\n", result.ExecutedReference)
			return nil
		},
	}
}

func getProposalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_proposal [proposal_id]",
		Args:  cobra.ExactArgs(1),
		Short: "returns the full proposal with its signature list",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			resp, err := getProposalRequest(listenAddr, args[0])
			if err != nil {
				return fmt.Errorf("failed to get proposal: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to get proposal: %s", resp.ErrorMessage)
			}

			proposal := resp.Result
			printProposal(proposal)
			for _, sig := range proposal.Signatures {
				fmt.Printf("  signed by %s at %s\n", sig.SignerAddr, sig.SignedAt)
			}
			return nil
		},
	}
}

func getGroupProposalsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list_proposals [group_id]",
		Args:  cobra.ExactArgs(1),
		Short: "lists the group's proposals, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			statusFilter, _ := cmd.Flags().GetString("status")

			resp, err := getGroupProposalsRequest(listenAddr, args[0], statusFilter)
			if err != nil {
				return fmt.Errorf("failed to get group proposals: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to get group proposals: %s", resp.ErrorMessage)
			}

			for _, p := range resp.Result {
				fmt.Printf("%s  %-16s %s  %d/%d\n",
					p.ID, p.Operation, coloredStatus(p.Status), p.CurrentSigs, p.RequiredSigs)
			}
			return nil
		},
	}
	cmd.Flags().String("status", "", "Filter by proposal status (pending, approved, executed, expired)")
	return cmd
}

func sweepExpiredCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "expires all stale pending proposals and prints the count",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			resp, err := rawPostRequest(fmt.Sprintf("http://%s/sweepExpired", listenAddr), nil)
			if err != nil {
				return fmt.Errorf("failed to sweep: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to sweep: %s", resp.ErrorMessage)
			}

			var result struct {
				ExpiredCount int `json:"expired_count"`
			}
			if err := json.Unmarshal(resp.Result, &result); err != nil {
				return fmt.Errorf("failed to unmarshal sweep result: %w", err)
			}
			fmt.Printf("expired %d proposals\n", result.ExpiredCount)
			return nil
		},
	}
}

func loadKeyPair(cmd *cobra.Command) (*keystore.KeyPair, error) {
	username, err := cmd.Flags().GetString(flagUserName)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %v", err)
	}
	keyStoreDBDSN, err := cmd.Flags().GetString(flagStoreDBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %v", err)
	}

	keyStore, err := keystore.NewLevelDBKeyStore(keyStoreDBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init key store: %w", err)
	}

	return keyStore.LoadKeys(username)
}
