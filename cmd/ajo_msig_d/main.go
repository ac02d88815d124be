package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajolabs/ajo-multisig/engine/api/http_api"
	"github.com/ajolabs/ajo-multisig/engine/config"
	"github.com/ajolabs/ajo-multisig/engine/modules/keystore"
	"github.com/ajolabs/ajo-multisig/engine/services"
	"github.com/ajolabs/ajo-multisig/engine/services/sweeper"
)

const (
	flagConfigPath = "config"
	flagUserName   = "username"
	flagStoreDBDSN = "key_store_dbdsn"
)

var rootCmd = &cobra.Command{
	Use:   "ajo_msig_d",
	Short: "multi-signature proposal engine daemon",
}

func init() {
	rootCmd.PersistentFlags().String(flagConfigPath, "./ajo_msig_config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().String(flagUserName, "operator", "Username for the local keystore")
	rootCmd.PersistentFlags().String(flagStoreDBDSN, "./ajo_msig_key_store", "Key Store DBDSN")
}

func genKeyPairCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "gen_keys",
		Short: "generates a keypair to sign proposals and prints the signer address",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := cmd.Flags().GetString(flagUserName)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			keyStoreDBDSN, err := cmd.Flags().GetString(flagStoreDBDSN)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			keyPair := keystore.NewKeyPair()
			keyStore, err := keystore.NewLevelDBKeyStore(keyStoreDBDSN)
			if err != nil {
				return fmt.Errorf("failed to init key store: %w", err)
			}
			if err = keyStore.PutKeys(username, keyPair); err != nil {
				return fmt.Errorf("failed to save keypair: %w", err)
			}
			fmt.Printf("keypair generated for user %s and saved to %s\n", username, keyStoreDBDSN)
			fmt.Printf("signer address: %s\n", keyPair.GetAddr())
			return nil
		},
	}
}

func startCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "starts the multi-signature engine",
		Run: func(cmd *cobra.Command, args []string) {
			configPath, err := cmd.Flags().GetString(flagConfigPath)
			if err != nil {
				log.Fatalf("failed to read configuration: %v", err)
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				log.Fatalf("failed to load config: %v", err)
			}

			sp, err := services.InitServices(cfg)
			if err != nil {
				log.Fatalf("failed to init services: %v", err)
			}

			ctx, cancel := context.WithCancel(context.Background())

			sweepPeriod := sweeper.DefaultSweepPeriod
			if cfg.SweeperConfig != nil && cfg.SweeperConfig.Period > 0 {
				sweepPeriod = cfg.SweeperConfig.Period
			}
			expirySweeper := sweeper.NewSweeper(sp.GetProposalService(), sweepPeriod, sp.GetLogger())
			go expirySweeper.Run(ctx)

			server := &http_api.RESTApiProvider{}
			if err := server.NewServer(cfg, sp); err != nil {
				log.Fatalf("failed to init REST API provider: %v", err)
			}

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT)
			go func() {
				<-sigs

				log.Println("Received signal, shutting down node...")
				cancel()

				if err := server.Stop(context.Background()); err != nil {
					log.Fatalf("failed to stop REST API provider: %v", err)
				}
				if err := sp.GetEventLog().Close(); err != nil {
					log.Printf("failed to close event log: %v", err)
				}
				if err := sp.GetState().Close(); err != nil {
					log.Printf("failed to close state: %v", err)
				}
			}()

			if err := server.Start(); err != nil {
				log.Printf("REST API provider stopped: %v", err)
			}
		},
	}
}

func main() {
	rootCmd.AddCommand(
		genKeyPairCommand(),
		startCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute root command: %v", err)
	}
}
