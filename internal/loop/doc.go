// Package loop runs the interactive task menu.
//
// A Session owns the task list, its store and the action log. The menu loop
// and the terminal UI both drive the same Session operations:
//
//	1  add a task (logged, then appended, then saved)
//	2  delete a task by id (logged before removal, then saved)
//	3  complete a task by id (marked done, logged, then saved)
//	4  list tasks (one action log entry per task)
//	5  exit
package loop
