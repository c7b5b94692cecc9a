// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify delivers submitted questionnaires.

Three sinks implement submission.Sink:

  - Email sends an operator notification and a copy to the respondent
    through a Mailer. The two sends are independent; the submission counts
    as delivered when either lands, with the failure reported as a warning.
  - Unconfigured accepts every submission with a warning. The server uses
    it when no mail provider key is set.
  - HTTP posts the payload to a running server's submit endpoint. The
    terminal client uses it.

ResendMailer is the production Mailer backed by the Resend API.
*/
package notify
