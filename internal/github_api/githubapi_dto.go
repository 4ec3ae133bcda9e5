package githubapi

// Item types of a contents listing entry (github.RepositoryContent.Type)
const (
	ItemFile = "file"
	ItemDir  = "dir"
)
