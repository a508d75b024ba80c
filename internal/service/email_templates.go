package service

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

func pledgeReceivedTemplate(patientName, providerName, goal string, amount, days int, appURL, appName string) (string, string) {
	subject := amountPrinter.Sprintf("%s pledged %d RDM toward your health goal", providerName, amount)
	body := amountPrinter.Sprintf(`Hi %s,

**%s** has pledged **%d RDM** if you reach this goal:

> %s

You have %d days once you accept. Review and accept the pledge here:
%s

Best,
The %s Team`, patientName, providerName, amount, goal, days, appURL, appName)

	return subject, body
}

func pledgeIssuedTemplate(providerName, patientName, goal string, amount int, appName string) (string, string) {
	subject := amountPrinter.Sprintf("Your %d RDM pledge to %s was sent", amount, patientName)
	body := amountPrinter.Sprintf(`Hi %s,

Your pledge of **%d RDM** for "%s" is waiting for %s to accept it.
Any earlier unaccepted pledge for this patient has been replaced.

Best,
The %s Team`, providerName, amount, goal, patientName, appName)

	return subject, body
}
