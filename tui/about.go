package tui

const aboutText = `Book Manager helps you keep notes on the books you read.

You can:
- add books to the collection
- add pages to a book
- edit and delete pages
- delete books together with their pages

Covers are stored as a path to an image file. The file is not copied, so keep it where it is.`

func newAboutDialog() messageDialog {
	return messageDialog{title: "About", body: aboutText, style: StyleHeader}
}
