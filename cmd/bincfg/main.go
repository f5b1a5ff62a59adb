// Command bincfg inspects binary config data blobs: header and section
// info, validation, Lua-style dumps, and raw hex dumps.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/scigolib/bincfg"
)

func main() {
	root := &cobra.Command{
		Use:           "bincfg",
		Short:         "Inspect binary config data blobs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(infoCommand(), validateCommand(), dumpCommand(), hexCommand())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print header fields and section layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			config, err := bincfg.New(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			info := bincfg.Inspect(config)
			fmt.Printf("blob size:        %d bytes\n", info.BlobSize)
			fmt.Printf("root elements:    %d\n", info.RootLen)
			fmt.Printf("key table offset: %d\n", info.KeyTableOffset)
			fmt.Printf("key table len:    %d entries\n", info.KeyTableLen)
			fmt.Printf("string section:   %d bytes at offset %d\n",
				info.StringSectionSize, info.StringSectionOffset)
			return nil
		},
	}
}

func validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a blob, exiting nonzero if it is malformed",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			if err := bincfg.Validate(data); err != nil {
				if errors.Is(err, bincfg.ErrInvalidBinaryConfigData) {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				return err
			}

			fmt.Printf("%s: OK (%d bytes)\n", args[0], len(data))
			return nil
		},
	}
}

func dumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the Lua-style rendering of a blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			config, err := bincfg.New(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			fmt.Println(config.LuaString())
			return nil
		},
	}
}

func hexCommand() *cobra.Command {
	var offset int64
	var length int

	cmd := &cobra.Command{
		Use:   "hex <file>",
		Short: "Hex dump a byte range of a blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			if offset < 0 || offset >= int64(len(data)) {
				return fmt.Errorf("invalid offset: %d (blob size: %d)", offset, len(data))
			}
			if length < 1 {
				return fmt.Errorf("invalid length: %d", length)
			}

			end := offset + int64(length)
			if end > int64(len(data)) {
				end = int64(len(data))
			}

			hexDump(data[offset:end], offset)
			return nil
		},
	}

	cmd.Flags().Int64Var(&offset, "offset", 0, "Offset in the blob to start dumping from")
	cmd.Flags().IntVar(&length, "length", 128, "Number of bytes to dump")

	return cmd
}

// hexDump prints 16 bytes per line with the blob offset and an ASCII
// column.
func hexDump(data []byte, base int64) {
	for line := 0; line < len(data); line += 16 {
		end := line + 16
		if end > len(data) {
			end = len(data)
		}
		chunk := data[line:end]

		fmt.Printf("%08x  ", base+int64(line))
		for i := 0; i < 16; i++ {
			if i < len(chunk) {
				fmt.Printf("%02x ", chunk[i])
			} else {
				fmt.Print("   ")
			}
			if i == 7 {
				fmt.Print(" ")
			}
		}

		fmt.Print(" |")
		for _, b := range chunk {
			if b >= 0x20 && b < 0x7F {
				fmt.Printf("%c", b)
			} else {
				fmt.Print(".")
			}
		}
		fmt.Println("|")
	}
}
