package operation

// PageInput is embedded by list operations.
type PageInput struct {
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Number of results"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Offset for pagination"`
}
