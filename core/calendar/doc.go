// Package calendar provides WeekCalendar, a weekly working-time pattern with
// dated exceptions implementing model.Calendar. Working periods are expressed
// in minutes from midnight and all arithmetic is done in the location of the
// timestamps passed in.
package calendar
