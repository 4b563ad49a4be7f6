// Package process manages the external renderer processes behind
// asynchronous render jobs.
//
// The Supervisor starts renderer commands as tracked Jobs, monitors
// their exit, and answers the run-state queries the job poller
// issues. Finished jobs stay tracked until released so a poll that
// lands after exit still sees a terminal state.
//
//	supervisor := process.NewSupervisor()
//	defer supervisor.Shutdown(5 * time.Second)
//
//	cmd := exec.Command("mmdc", "-i", src, "-o", out)
//	job, err := supervisor.Start("mermaid", out, cmd)
//	if err != nil {
//	    return err
//	}
//	<-job.Done()
//
// Both Supervisor and Job are safe for concurrent use.
package process
