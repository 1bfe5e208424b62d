package mcpserver

// EntryFormatContract describes the journal entry shape that LLM consumers
// should follow when adding entries through the MCP tools.
const EntryFormatContract = `# Dagaz Entry Format Contract

Every journal entry added through the MCP tools follows this shape.

## Fields

- **content** (REQUIRED) – the entry body. May contain simple inline HTML
  (<b>, <i>, <u>, lists); statistics strip tags before counting words.
  An entry with empty content is rejected.
- **title** (optional) – short plain-text title. Views fall back to
  "Untitled Entry" when absent.
- **mood** (optional) – a single lowercase label, e.g. "happy", "sad",
  "calm", "excited". Mood statistics group by exact label.
- **tags** (optional) – comma-separated short labels, e.g. "work,travel".
- **date** (optional) – calendar day in ISO form "2006-01-02". Defaults to
  today. Grouping, streaks, and the calendar all key off this day.
- **time** (optional) – 24-hour wall clock "15:04". Defaults to now. Used
  only for best-writing-hour statistics and same-day ordering.

## Rules

1. One entry describes one sitting; write multiple entries for multiple
   sittings on the same day rather than appending.
2. Do not encode the date inside the content; use the date field.
3. Tags are lowercase, kebab-case.
4. Encoding is UTF-8.
`
