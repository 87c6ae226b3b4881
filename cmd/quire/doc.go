package main

import (
	"fmt"
	"os"
	"strings"

	"quire/internal/app"
	"quire/internal/quire"

	"github.com/spf13/cobra"
)

// closeApp records the command's outcome on the operation and closes the app.
func closeApp(a *app.QuireApp, err *error) {
	a.Fail(*err)
	if cerr := a.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage documents",
}

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ListDocuments")
		if err != nil {
			return err
		}
		defer a.Close()

		docs, err := a.ListDocuments(cmd.Context())
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Println("No documents.")
			return nil
		}
		for _, d := range docs {
			fmt.Printf("%s  %-24s  %3d blocks  %s  %s\n",
				d.ID,
				truncate(d.Name, 24),
				len(d.Blocks),
				d.UpdatedAt.Format("2006-01-02 15:04:05"),
				truncate(d.Description, 40),
			)
		}
		return nil
	},
}

var docCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create an empty document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		description, _ := cmd.Flags().GetString("description")

		a, err := newApp(cmd, "CreateDocument", args[0])
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		doc, err := a.CreateDocument(cmd.Context(), args[0], description)
		if err != nil {
			return err
		}
		fmt.Printf("Created document %s\n", doc.ID)
		return nil
	},
}

var docShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		a, err := newApp(cmd, "ShowDocument")
		if err != nil {
			return err
		}
		defer a.Close()

		return a.ShowDocument(cmd.Context(), args[0], format, os.Stdout)
	},
}

var docEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Replace a document's content from a text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		file, _ := cmd.Flags().GetString("file")

		a, err := newApp(cmd, "EditText", args[0], file)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		doc, err := a.EditFromFile(cmd.Context(), args[0], file)
		if err != nil {
			return err
		}
		fmt.Printf("Document %s now has %d block(s)\n", doc.ID, len(doc.Blocks))
		return nil
	},
}

var docAppendCmd = &cobra.Command{
	Use:   "append ID",
	Short: "Append the blocks in a text file to a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		file, _ := cmd.Flags().GetString("file")

		a, err := newApp(cmd, "AppendText", args[0], file)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		added, err := a.AppendFromFile(cmd.Context(), args[0], file)
		if err != nil {
			return err
		}
		fmt.Printf("Appended %d block(s)\n", len(added))
		return nil
	},
}

var docRenameCmd = &cobra.Command{
	Use:   "rename ID NAME",
	Short: "Change a document's name or description",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		fields := quire.DocumentFields{Name: &args[1]}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			fields.Description = &description
		}

		a, err := newApp(cmd, "UpdateMetadata", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		doc, err := a.UpdateMetadata(cmd.Context(), args[0], fields)
		if err != nil {
			return err
		}
		fmt.Printf("Renamed %s to %q\n", doc.ID, doc.Name)
		return nil
	},
}

var docRmBlockCmd = &cobra.Command{
	Use:   "rm-block ID BLOCK_ID",
	Short: "Remove one block from a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "RemoveBlock", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		if err := a.RemoveBlock(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Removed block %s\n", args[1])
		return nil
	},
}

// image command
var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage document images",
}

var imageAddCmd = &cobra.Command{
	Use:   "add ID PATH",
	Short: "Upload an image and append it to a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		flags := cmd.Flags()
		var attrs quire.ImageAttrs
		attrs.AltText, _ = flags.GetString("alt")
		attrs.Width, _ = flags.GetString("width")
		attrs.Height, _ = flags.GetString("height")
		attrs.Caption, _ = flags.GetString("caption")
		align, _ := flags.GetString("align")
		attrs.Alignment = quire.Alignment(align)

		a, err := newApp(cmd, "AddImage", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		rec, err := a.AddImage(cmd.Context(), args[0], args[1], attrs)
		if err != nil {
			return err
		}
		fmt.Printf("Uploaded %s (%s, %d bytes)\n", rec.URL, rec.MimeType, rec.Size)
		return nil
	},
}

var imageListCmd = &cobra.Command{
	Use:   "list ID",
	Short: "List the images uploaded for a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ListImages")
		if err != nil {
			return err
		}
		defer a.Close()

		imgs, err := a.ListImages(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(imgs) == 0 {
			fmt.Println("No images.")
			return nil
		}
		for _, img := range imgs {
			fmt.Printf("%s  %-12s  %8d  %s\n", img.CreatedAt.Format("2006-01-02 15:04:05"), img.MimeType, img.Size, img.URL)
		}
		return nil
	},
}

// generate command
var generateCmd = &cobra.Command{
	Use:   "generate INPUT...",
	Short: "Let the content generator add blocks for free-form input",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		docID, _ := cmd.Flags().GetString("doc")
		input := strings.Join(args, " ")

		a, err := newApp(cmd, "Generate", docID)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		res, err := a.Generate(cmd.Context(), input, docID)
		if err != nil {
			return err
		}
		fmt.Printf("Added %d block(s) to %q (%s)\n", len(res.Added), res.Selection.DocumentName, res.Selection.DocumentID)
		for _, b := range res.Added {
			fmt.Printf("  %s  %s\n", b.ID, b.Type())
		}
		return nil
	},
}

func init() {
	docCmd.AddCommand(docListCmd)
	docCmd.AddCommand(docCreateCmd)
	docCreateCmd.Flags().StringP("description", "d", "", "Document description")
	docCmd.AddCommand(docShowCmd)
	docShowCmd.Flags().StringP("format", "f", "text", "Output format: text, html or json")
	docCmd.AddCommand(docEditCmd)
	docEditCmd.Flags().String("file", "-", "Text file to read (- for stdin)")
	docCmd.AddCommand(docAppendCmd)
	docAppendCmd.Flags().String("file", "-", "Text file to read (- for stdin)")
	docCmd.AddCommand(docRenameCmd)
	docRenameCmd.Flags().StringP("description", "d", "", "New description")
	docCmd.AddCommand(docRmBlockCmd)

	imageCmd.AddCommand(imageAddCmd)
	imageAddCmd.Flags().String("alt", "", "Alternative text")
	imageAddCmd.Flags().String("width", "", "Display width, e.g. 640 or 50%")
	imageAddCmd.Flags().String("height", "", "Display height")
	imageAddCmd.Flags().String("align", "", "Alignment: left, center or right")
	imageAddCmd.Flags().String("caption", "", "Caption shown below the image")
	imageCmd.AddCommand(imageListCmd)

	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("doc", "", "Target document ID (default: let the generator choose)")
}
