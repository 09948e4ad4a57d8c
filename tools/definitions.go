package tools

import (
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

func createReminderTool() mcptypes.Tool {
	return mcptypes.NewTool("create_reminder",
		mcptypes.WithDescription("Create a reminder or calendar event for the user. "+
			"Adds it to the user's calendar when one is connected, otherwise keeps it in the session's reminder list."),
		mcptypes.WithString("title",
			mcptypes.Required(),
			mcptypes.Description("What to be reminded about"),
		),
		mcptypes.WithString("date",
			mcptypes.Description("When, as 'today', 'tomorrow' or YYYY-MM-DD (default: today)"),
		),
		mcptypes.WithString("time",
			mcptypes.Description("Time of day, e.g. '3pm', '14:30', '9:15am' (default: 9am)"),
		),
		mcptypes.WithString("notes",
			mcptypes.Description("Optional extra details"),
		),
		mcptypes.WithString("calendar",
			mcptypes.Description("Preferred calendar name, e.g. 'Family' (default: the first available calendar)"),
		),
		mcptypes.WithNumber("alert_minutes_before",
			mcptypes.Description("Minutes before the event to show a notification (default: 15)"),
		),
	)
}

func listRemindersTool() mcptypes.Tool {
	return mcptypes.NewTool("list_reminders",
		mcptypes.WithDescription("List the reminders saved in this session's reminder list. "+
			"Does not reflect the user's real calendar; use list_upcoming_events for that."),
	)
}

func todayScheduleTool() mcptypes.Tool {
	return mcptypes.NewTool("get_today_schedule",
		mcptypes.WithDescription("Get today's calendar events for the user."),
	)
}

func upcomingEventsTool() mcptypes.Tool {
	return mcptypes.NewTool("list_upcoming_events",
		mcptypes.WithDescription("List upcoming calendar events in a date window."),
		mcptypes.WithString("dateStr",
			mcptypes.Description("Window start, as 'today', 'tomorrow' or YYYY-MM-DD (default: today)"),
		),
		mcptypes.WithNumber("daysAhead",
			mcptypes.Description("How many days the window covers (default: 1)"),
		),
	)
}
